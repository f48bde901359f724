package runintroductionbatch

import (
	"context"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/observability"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type Input struct {
	DemandSegment string `json:"demandSegment"`
	SupplySegment string `json:"supplySegment"`
	SupplyQuery   string `json:"supplyQuery,omitempty"`
	Notify        bool   `json:"notify"`
}

type Output struct {
	BatchID          string               `json:"batchId"`
	Total            int                  `json:"batchTotal"`
	Composed         int                  `json:"batchComposed"`
	Dropped          int                  `json:"batchDropped"`
	DropReasons      map[string]int       `json:"batchDropReasons"`
	Introductions    []models.IntroOutput `json:"introductions"`
	SummaryMessageID string               `json:"batchSummaryMessageId,omitempty"`
}

func (o *Output) ToVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"batchId":          o.BatchID,
		"batchTotal":       o.Total,
		"batchComposed":    o.Composed,
		"batchDropped":     o.Dropped,
		"batchDropReasons": o.DropReasons,
		"introductions":    o.Introductions,
	}
	if o.SummaryMessageID != "" {
		vars["batchSummaryMessageId"] = o.SummaryMessageID
	}
	return vars
}

// Summary is the message published to SNS after a batch.
type Summary struct {
	BatchID       string         `json:"batchId"`
	DemandSegment string         `json:"demandSegment"`
	SupplySegment string         `json:"supplySegment"`
	SupplyQuery   string         `json:"supplyQuery,omitempty"`
	Total         int            `json:"total"`
	Composed      int            `json:"composed"`
	Dropped       int            `json:"dropped"`
	DropReasons   map[string]int `json:"dropReasons"`
	DurationMs    int64          `json:"durationMs"`
}

// RecordSource loads both sides of a batch.
type RecordSource interface {
	Demand(ctx context.Context, segment string) ([]models.DemandRecord, error)
	Supply(ctx context.Context, segment, query string) ([]models.SupplyRecord, error)
}

type SummaryPublisher interface {
	PublishJSON(ctx context.Context, topicARN, subject string, v interface{}) (string, error)
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Pipeline      *pipeline.Pipeline
	Records       RecordSource
	Publisher     SummaryPublisher
	Observability *observability.Observability
}
