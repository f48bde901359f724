package runintroductionbatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/metrics"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/observability"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const summarySubject = "Introduction batch summary"

type Service struct {
	config    *Config
	logger    logger.Logger
	pipeline  *pipeline.Pipeline
	records   RecordSource
	publisher SummaryPublisher
	obs       *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:    config,
		logger:    deps.Logger,
		pipeline:  deps.Pipeline,
		records:   deps.Records,
		publisher: deps.Publisher,
		obs:       deps.Observability,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	batchID := uuid.NewString()

	ctx, span := s.obs.StartSpan(ctx, "introduction.batch",
		attribute.String("batchId", batchID),
		attribute.String("demandSegment", input.DemandSegment),
		attribute.String("supplySegment", input.SupplySegment),
	)
	defer span.End()

	demands, err := s.records.Demand(ctx, input.DemandSegment)
	if err != nil {
		span.SetStatus(codes.Error, "demand load failed")
		return nil, err
	}
	pool, err := s.records.Supply(ctx, input.SupplySegment, input.SupplyQuery)
	if err != nil {
		span.SetStatus(codes.Error, "supply load failed")
		return nil, err
	}

	s.logger.Info("Starting introduction batch", map[string]interface{}{
		"batchId": batchID,
		"demand":  len(demands),
		"supply":  len(pool),
	})

	results, err := s.pipeline.RunBatch(ctx, demands, pool, nil)
	if err != nil {
		span.SetStatus(codes.Error, "batch cancelled")
		return nil, errors.NewBatchCancelledError(len(results), len(demands)).WithMetadata("batchId", batchID)
	}
	for _, res := range results {
		if res.IsComposed() {
			metrics.ObserveResult(true, "", res.Output.Payload.MatchScore)
		} else {
			metrics.ObserveResult(false, string(res.Reason), 0)
		}
	}

	stats := pipeline.Stats(results)
	composed, _ := pipeline.Partition(results)
	duration := time.Since(start)

	s.obs.RecordBatch(ctx, stats.Composed, stats.Dropped, duration)
	span.SetAttributes(
		attribute.Int("composed", stats.Composed),
		attribute.Int("dropped", stats.Dropped),
	)

	output := &Output{
		BatchID:       batchID,
		Total:         stats.Total,
		Composed:      stats.Composed,
		Dropped:       stats.Dropped,
		DropReasons:   make(map[string]int, len(stats.DropReasons)),
		Introductions: make([]models.IntroOutput, 0, len(composed)),
	}
	for reason, n := range stats.DropReasons {
		output.DropReasons[string(reason)] = n
	}
	for _, res := range composed {
		output.Introductions = append(output.Introductions, *res.Output)
	}

	if input.Notify && s.config.SummaryEnabled && s.publisher != nil {
		messageID, err := s.publisher.PublishJSON(ctx, s.config.TopicARN, summarySubject, Summary{
			BatchID:       batchID,
			DemandSegment: input.DemandSegment,
			SupplySegment: input.SupplySegment,
			SupplyQuery:   input.SupplyQuery,
			Total:         output.Total,
			Composed:      output.Composed,
			Dropped:       output.Dropped,
			DropReasons:   output.DropReasons,
			DurationMs:    duration.Milliseconds(),
		})
		if err != nil {
			span.SetStatus(codes.Error, "summary publish failed")
			return nil, errors.NewSummaryPublishFailedError(err).WithMetadata("batchId", batchID)
		}
		output.SummaryMessageID = messageID
	}

	s.logger.Info("Introduction batch finished", map[string]interface{}{
		"batchId":    batchID,
		"total":      output.Total,
		"composed":   output.Composed,
		"dropped":    output.Dropped,
		"durationMs": duration.Milliseconds(),
	})
	return output, nil
}
