package composeintroduction

import (
	"context"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type Input struct {
	Demand        models.DemandRecord   `json:"demand"`
	SupplyPool    []models.SupplyRecord `json:"supplyPool,omitempty"`
	SupplySegment string                `json:"supplySegment,omitempty"`
	SupplyQuery   string                `json:"supplyQuery,omitempty"`

	// HasPool distinguishes an explicit empty pool from a missing one.
	HasPool bool `json:"-"`
}

type Output struct {
	IntroID       string          `json:"introId"`
	Dropped       bool            `json:"introDropped"`
	DropReason    string          `json:"introDropReason,omitempty"`
	DropDetails   string          `json:"introDropDetails,omitempty"`
	DemandIntroTo string          `json:"demandIntroTo,omitempty"`
	DemandBody    string          `json:"demandIntroBody,omitempty"`
	SupplyIntroTo string          `json:"supplyIntroTo,omitempty"`
	SupplyBody    string          `json:"supplyIntroBody,omitempty"`
	FitReason     string          `json:"introFitReason,omitempty"`
	EdgeType      models.EdgeType `json:"introEdgeType,omitempty"`
	MatchScore    float64         `json:"introMatchScore,omitempty"`
}

// ToVariables returns the process variables written on completion.
func (o *Output) ToVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"introId":      o.IntroID,
		"introDropped": o.Dropped,
	}
	if o.Dropped {
		vars["introDropReason"] = o.DropReason
		vars["introDropDetails"] = o.DropDetails
		return vars
	}
	vars["demandIntroTo"] = o.DemandIntroTo
	vars["demandIntroBody"] = o.DemandBody
	vars["supplyIntroTo"] = o.SupplyIntroTo
	vars["supplyIntroBody"] = o.SupplyBody
	vars["introFitReason"] = o.FitReason
	vars["introEdgeType"] = string(o.EdgeType)
	vars["introMatchScore"] = o.MatchScore
	return vars
}

// SupplyLoader resolves a supply pool by segment when the job does not carry
// one inline.
type SupplyLoader interface {
	Supply(ctx context.Context, segment, query string) ([]models.SupplyRecord, error)
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Pipeline *pipeline.Pipeline
	Supply   SupplyLoader
}
