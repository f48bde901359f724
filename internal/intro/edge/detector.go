// Package edge reduces a demand record's signals to at most one routable
// edge.
package edge

import (
	"math"
	"strings"
	"time"

	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const (
	DefaultContextWindow = 90 * 24 * time.Hour

	contextBoost   = 0.05
	confidenceCeil = 0.95
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

type Detector struct {
	rules        []Rule
	contextRules []ContextRule
	window       time.Duration
	now          func() time.Time
}

type Option func(*Detector)

// WithContextWindow sets how old a contextual signal may be and still count.
func WithContextWindow(window time.Duration) Option {
	return func(d *Detector) {
		if window > 0 {
			d.window = window
		}
	}
}

// WithClock injects the reference time for the recency window.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

func WithRules(rules []Rule, contextRules []ContextRule) Option {
	return func(d *Detector) {
		d.rules = rules
		d.contextRules = contextRules
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		rules:        DefaultRules(),
		contextRules: DefaultContextRules(),
		window:       DefaultContextWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the highest-precedence primary edge, with the first recent
// contextual signal folded into its evidence, or nil when no primary signal
// qualifies.
func (d *Detector) Detect(demand models.DemandRecord) *models.Edge {
	primary, rule, ok := d.findPrimary(demand.Signals)
	if !ok {
		return nil
	}

	edge := &models.Edge{
		Type:       rule.Edge,
		Evidence:   rule.Evidence(primary),
		Confidence: rule.Confidence,
	}

	if ctx, ctxRule, ok := d.findContext(demand.Signals); ok {
		edge.Evidence += ctxRule.Evidence(ctx)
		edge.Confidence = math.Min(edge.Confidence+contextBoost, confidenceCeil)
	}
	return edge
}

func (d *Detector) findPrimary(signals []models.Signal) (models.Signal, Rule, bool) {
	for _, rule := range d.rules {
		for _, s := range signals {
			if !hasType(rule.Types, s.Type) {
				continue
			}
			if rule.Source != "" && NormalizeSource(s.Source) != rule.Source {
				continue
			}
			return s, rule, true
		}
	}
	return models.Signal{}, Rule{}, false
}

func (d *Detector) findContext(signals []models.Signal) (models.Signal, ContextRule, bool) {
	now := d.now()
	for _, rule := range d.contextRules {
		for _, s := range signals {
			if !hasType(rule.Types, s.Type) {
				continue
			}
			ts, ok := parseDate(s.Date)
			if !ok {
				continue
			}
			age := now.Sub(ts)
			if age < 0 || age > d.window {
				continue
			}
			return s, rule, true
		}
	}
	return models.Signal{}, ContextRule{}, false
}

func hasType(types []string, signalType string) bool {
	norm := NormalizeType(signalType)
	for _, t := range types {
		if t == norm {
			return true
		}
	}
	return false
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
