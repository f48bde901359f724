// internal/records/search.go
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const defaultSearchSize = 500

// SearchSource finds supply records in an Elasticsearch index by capability
// text.
type SearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewSearchSource(client *elasticsearch.Client, index string) *SearchSource {
	return &SearchSource{client: client, index: index, size: defaultSearchSize}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.SupplyRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SupplyByCapability returns the supply records of segment whose capability
// fields match query. An empty query returns the whole segment.
func (s *SearchSource) SupplyByCapability(ctx context.Context, segment, query string) ([]models.SupplyRecord, error) {
	body, err := json.Marshal(buildCapabilityQuery(segment, query))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(s.size),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("status %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("decode response: %w", err))
	}

	out := make([]models.SupplyRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

func buildCapabilityQuery(segment, query string) map[string]interface{} {
	must := []interface{}{}
	if q := strings.TrimSpace(query); q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"capability^3", "targetProfile^2", "metadata.services", "metadata.specialization"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if segment != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"segment": segment}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}
