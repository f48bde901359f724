package composeintroduction

import (
	"context"

	"github.com/google/uuid"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/metrics"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	pipeline *pipeline.Pipeline
	supply   SupplyLoader
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		pipeline: deps.Pipeline,
		supply:   deps.Supply,
	}
}

// Execute runs one demand record through the pipeline. A drop is a normal
// outcome and is reported in the output, not as an error.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	pool, err := s.resolvePool(ctx, input)
	if err != nil {
		return nil, err
	}

	res := s.pipeline.Run(input.Demand, pool)
	output := &Output{IntroID: uuid.NewString()}

	if !res.IsComposed() {
		output.Dropped = true
		output.DropReason = string(res.Reason)
		output.DropDetails = res.Details
		metrics.ObserveResult(false, output.DropReason, 0)

		s.logger.Info("Introduction dropped", map[string]interface{}{
			"introId": output.IntroID,
			"company": input.Demand.Company,
			"reason":  output.DropReason,
			"details": output.DropDetails,
		})
		return output, nil
	}

	intro := res.Output
	output.DemandIntroTo = intro.DemandIntro.To
	output.DemandBody = intro.DemandIntro.Body
	output.SupplyIntroTo = intro.SupplyIntro.To
	output.SupplyBody = intro.SupplyIntro.Body
	output.FitReason = intro.Payload.FitReason
	output.EdgeType = intro.Payload.Edge.Type
	output.MatchScore = intro.Payload.MatchScore
	metrics.ObserveResult(true, "", output.MatchScore)

	s.logger.Info("Introduction composed", map[string]interface{}{
		"introId":  output.IntroID,
		"company":  input.Demand.Company,
		"supply":   intro.Payload.Supply.Company,
		"edgeType": output.EdgeType,
		"score":    output.MatchScore,
	})
	return output, nil
}

func (s *Service) resolvePool(ctx context.Context, input *Input) ([]models.SupplyRecord, error) {
	if input.HasPool {
		return input.SupplyPool, nil
	}
	if input.SupplySegment == "" {
		return nil, errors.NewValidationFailedError("either supplyPool or supplySegment is required")
	}
	if s.supply == nil {
		return nil, errors.NewValidationFailedError("supplySegment given but no supply source is configured")
	}
	return s.supply.Supply(ctx, input.SupplySegment, input.SupplyQuery)
}
