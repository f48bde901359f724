// internal/models/metadata.go
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DemandMetadata holds the known demand metadata keys. Unknown keys are kept
// in Extra and written back unchanged.
type DemandMetadata struct {
	NeedsTags      string
	ProfileTags    string
	Services       string
	Revenue        string
	Funding        string
	Location       string
	Stage          string
	LeadershipRole bool
	Extra          map[string]interface{}
}

// SupplyMetadata holds the known supply metadata keys. Unknown keys are kept
// in Extra and written back unchanged.
type SupplyMetadata struct {
	TargetRevenueRange string
	TargetRegions      string
	TargetStages       string
	Services           string
	Specialization     string
	Extra              map[string]interface{}
}

func (m *DemandMetadata) UnmarshalJSON(data []byte) error {
	raw, err := decodeBag(data)
	if err != nil {
		return err
	}
	*m = DemandMetadata{
		NeedsTags:      takeText(raw, "needsTags"),
		ProfileTags:    takeText(raw, "profileTags"),
		Services:       takeText(raw, "services"),
		Revenue:        takeText(raw, "revenue"),
		Funding:        takeText(raw, "funding"),
		Location:       takeText(raw, "location"),
		Stage:          takeText(raw, "stage"),
		LeadershipRole: takeBool(raw, "leadershipRole"),
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func (m DemandMetadata) MarshalJSON() ([]byte, error) {
	out := copyExtra(m.Extra)
	putText(out, "needsTags", m.NeedsTags)
	putText(out, "profileTags", m.ProfileTags)
	putText(out, "services", m.Services)
	putText(out, "revenue", m.Revenue)
	putText(out, "funding", m.Funding)
	putText(out, "location", m.Location)
	putText(out, "stage", m.Stage)
	if m.LeadershipRole {
		out["leadershipRole"] = true
	}
	return json.Marshal(out)
}

func (m *SupplyMetadata) UnmarshalJSON(data []byte) error {
	raw, err := decodeBag(data)
	if err != nil {
		return err
	}
	*m = SupplyMetadata{
		TargetRevenueRange: takeText(raw, "targetRevenueRange"),
		TargetRegions:      takeText(raw, "targetRegions"),
		TargetStages:       takeText(raw, "targetStages"),
		Services:           takeText(raw, "services"),
		Specialization:     takeText(raw, "specialization"),
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func (m SupplyMetadata) MarshalJSON() ([]byte, error) {
	out := copyExtra(m.Extra)
	putText(out, "targetRevenueRange", m.TargetRevenueRange)
	putText(out, "targetRegions", m.TargetRegions)
	putText(out, "targetStages", m.TargetStages)
	putText(out, "services", m.Services)
	putText(out, "specialization", m.Specialization)
	return json.Marshal(out)
}

func decodeBag(data []byte) (map[string]interface{}, error) {
	if string(data) == "null" {
		return map[string]interface{}{}, nil
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return raw, nil
}

// takeText removes key from raw and renders it as text. Arrays are joined
// with spaces so tag lists and tag strings tokenize the same way.
func takeText(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	delete(raw, key)
	return textOf(v)
}

func textOf(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := textOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}

func takeBool(raw map[string]interface{}, key string) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	delete(raw, key)
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	}
	return false
}

func copyExtra(extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(extra)+8)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func putText(out map[string]interface{}, key, value string) {
	if value != "" {
		out[key] = value
	}
}
