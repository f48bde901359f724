// Package pipeline wires edge detection, matching, gating and composition
// into a per-record state machine with batch helpers.
package pipeline

import (
	"errors"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/composer"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/edge"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/expansion"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/gate"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/matcher"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type State string

const (
	StateDetecting       State = "DETECTING"
	StateMatching        State = "MATCHING"
	StateGating          State = "GATING"
	StateComposing       State = "COMPOSING"
	StateFinalValidating State = "FINAL_VALIDATING"
	StateComposed        State = "COMPOSED"
	StateDropped         State = "DROPPED"
)

// TransitionHook observes every state change of a single Run.
type TransitionHook func(from, to State)

type Pipeline struct {
	detector *edge.Detector
	matcher  *matcher.Matcher
	composer *composer.Composer
	hook     TransitionHook
	log      logger.Logger

	progressEvery int
}

type Option func(*Pipeline)

func WithTransitionHook(hook TransitionHook) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithProgressInterval sets how many records RunBatch processes between
// progress log lines.
func WithProgressInterval(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.progressEvery = n
		}
	}
}

func New(detector *edge.Detector, m *matcher.Matcher, c *composer.Composer, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:      detector,
		matcher:       m,
		composer:      c,
		log:           logger.NewNoOpLogger(),
		progressEvery: YieldEvery,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Composer returns the composer so callers can re-run the banned-phrase
// firewall on stored bodies.
func (p *Pipeline) Composer() *composer.Composer {
	return p.composer
}

// NewFromTaxonomy builds the default component chain around tax.
func NewFromTaxonomy(tax *taxonomy.Taxonomy, expand bool, detectorOpts []edge.Option, opts ...Option) *Pipeline {
	return New(
		edge.NewDetector(detectorOpts...),
		matcher.New(tax, expansion.New(tax, expand)),
		composer.New(tax),
		opts...,
	)
}

type run struct {
	state State
	hook  TransitionHook
}

func (r *run) to(next State) {
	if r.hook != nil {
		r.hook(r.state, next)
	}
	r.state = next
}

func (r *run) drop(reason models.DropReason, details string) models.PipelineResult {
	r.to(StateDropped)
	return models.Drop(reason, details)
}

// Run processes one demand record against pool. It never panics or returns
// an error for expected failures; every failure is a drop result.
func (p *Pipeline) Run(demand models.DemandRecord, pool []models.SupplyRecord) models.PipelineResult {
	r := &run{state: StateDetecting, hook: p.hook}
	log := p.log.WithFields(map[string]interface{}{"company": demand.Company})

	detected := p.detector.Detect(demand)
	if detected == nil {
		log.Debug("No routable edge", map[string]interface{}{"signals": len(demand.Signals)})
		return r.drop(models.DropNoEdge, "no routable edge detected")
	}

	r.to(StateMatching)
	match := p.matcher.Find(demand, detected, pool)

	r.to(StateGating)
	var cp *models.Counterparty
	if match != nil {
		cp = &match.Counterparty
		log.Debug("Best counterparty", map[string]interface{}{
			"supply":            match.Supply.Company,
			"score":             match.Score,
			"supplyWantsDemand": match.SubScores.SupplyWantsDemand,
			"demandNeedsSupply": match.SubScores.DemandNeedsSupply,
			"contextFit":        match.SubScores.ContextFit,
		})
	}
	if res := gate.Check(demand, detected, cp); !res.Passed {
		log.Debug("Gate rejected record", map[string]interface{}{"reason": res.Reason, "details": res.Details})
		return r.drop(res.Reason, res.Details)
	}

	r.to(StateComposing)
	bodies, err := p.composer.Compose(demand, *detected, *cp, match.Supply)
	if err != nil {
		reason := models.DropMissingRequiredFields
		if errors.Is(err, composer.ErrBannedPhrase) {
			reason = models.DropPolicyViolation
		}
		log.Warn("Compose failed", map[string]interface{}{"reason": reason, "error": err.Error()})
		return r.drop(reason, err.Error())
	}

	r.to(StateFinalValidating)
	for _, body := range []string{bodies.Demand, bodies.Supply} {
		if phrase, banned := p.composer.CheckBanned(body); banned {
			return r.drop(models.DropPolicyViolation, "final validation found banned phrase \""+phrase+"\"")
		}
	}

	r.to(StateComposed)
	return models.Composed(models.IntroOutput{
		DemandIntro: models.Intro{To: demand.Email, Body: bodies.Demand},
		SupplyIntro: models.Intro{To: cp.Email, Body: bodies.Supply},
		Payload: models.IntroPayload{
			Demand:     demand,
			Supply:     match.Supply,
			Edge:       *detected,
			FitReason:  cp.FitReason,
			MatchScore: match.Score,
		},
	})
}
