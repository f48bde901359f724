package pipeline

import (
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/edge"
)

// NewFromConfig builds a pipeline from the introductions section of the
// application config.
func NewFromConfig(cfg config.IntroductionConfig, opts ...Option) *Pipeline {
	var detectorOpts []edge.Option
	if cfg.FundingWindowDays > 0 {
		detectorOpts = append(detectorOpts, edge.WithContextWindow(cfg.FundingWindow()))
	}
	opts = append([]Option{WithProgressInterval(cfg.ProgressInterval)}, opts...)
	return NewFromTaxonomy(cfg.BuildTaxonomy(), cfg.Expansion(), detectorOpts, opts...)
}
