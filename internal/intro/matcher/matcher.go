// Package matcher scores named supply candidates against a demand record and
// its edge and picks the single best counterparty.
package matcher

import (
	"math"
	"strings"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/expansion"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const (
	DefaultThreshold = 0.7

	weightSupplyWantsDemand = 0.4
	weightDemandNeedsSupply = 0.4
	weightContextFit        = 0.2

	industryBoost   = 0.3
	recruitingBoost = 0.4
	growthBoost     = 0.3
	successionBoost = 0.4

	epsilon = 1e-9

	genericFitReason = "Matched on shared profile terms."
)

type SubScores struct {
	SupplyWantsDemand float64 `json:"supplyWantsDemand"`
	DemandNeedsSupply float64 `json:"demandNeedsSupply"`
	ContextFit        float64 `json:"contextFit"`
}

// Total is the weighted sum of the three sub-scores.
func (s SubScores) Total() float64 {
	return s.SupplyWantsDemand*weightSupplyWantsDemand +
		s.DemandNeedsSupply*weightDemandNeedsSupply +
		s.ContextFit*weightContextFit
}

type Match struct {
	Counterparty models.Counterparty
	Supply       models.SupplyRecord
	Score        float64
	SubScores    SubScores
}

type Matcher struct {
	tax       *taxonomy.Taxonomy
	expander  *expansion.Expander
	threshold float64
}

type Option func(*Matcher)

func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

func New(tax *taxonomy.Taxonomy, expander *expansion.Expander, opts ...Option) *Matcher {
	m := &Matcher{tax: tax, expander: expander, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Find returns the best named supply record scoring at least the threshold,
// or nil. Scores within epsilon below the threshold are reported as the
// threshold. Ties within epsilon go to the lexicographically smaller email.
func (m *Matcher) Find(demand models.DemandRecord, edge *models.Edge, pool []models.SupplyRecord) *Match {
	var best *Match
	for _, supply := range pool {
		if !supply.IsNamed() {
			continue
		}
		sub := m.Score(demand, edge, supply)
		score := sub.Total()
		if score < m.threshold {
			if score < m.threshold-epsilon {
				continue
			}
			// rounding noise; report the threshold so Score >= threshold holds
			score = m.threshold
		}
		if best != nil {
			diff := score - best.Score
			if diff < -epsilon {
				continue
			}
			if math.Abs(diff) <= epsilon && supply.Email >= best.Supply.Email {
				continue
			}
		}
		best = &Match{Supply: supply, Score: score, SubScores: sub}
	}
	if best == nil {
		return nil
	}

	best.Counterparty = models.Counterparty{
		Company:   best.Supply.Company,
		Contact:   best.Supply.Contact,
		Email:     best.Supply.Email,
		Title:     best.Supply.Title,
		FitReason: FitReason(demand, edge, best.Supply),
	}
	return best
}

// Score computes the three sub-scores for one candidate without applying the
// named-contact filter or the threshold.
func (m *Matcher) Score(demand models.DemandRecord, edge *models.Edge, supply models.SupplyRecord) SubScores {
	return SubScores{
		SupplyWantsDemand: m.supplyWantsDemand(demand, supply),
		DemandNeedsSupply: m.demandNeedsSupply(demand, edge, supply),
		ContextFit:        contextFit(demand, supply),
	}
}

func (m *Matcher) supplyWantsDemand(demand models.DemandRecord, supply models.SupplyRecord) float64 {
	supplyTokens := m.tax.Tokens(join(supply.TargetProfile, supply.Capability))
	demandTokens := m.tax.Tokens(join(demand.Industry, demand.Metadata.ProfileTags, demand.Metadata.Services))

	score := jaccard(supplyTokens, demandTokens)

	target := strings.ToLower(strings.TrimSpace(supply.TargetProfile))
	industry := strings.ToLower(strings.TrimSpace(demand.Industry))
	if target != "" && industry != "" && (strings.Contains(target, industry) || strings.Contains(industry, target)) {
		score += industryBoost
	}
	return math.Min(score, 1)
}

func (m *Matcher) demandNeedsSupply(demand models.DemandRecord, edge *models.Edge, supply models.SupplyRecord) float64 {
	edgeType := models.EdgeType("")
	if edge != nil {
		edgeType = edge.Type
	}

	needText := []string{demand.Metadata.NeedsTags, spaced(string(edgeType))}
	valueText := []string{demand.Metadata.NeedsTags, demand.Metadata.ProfileTags, demand.Metadata.Services, demand.Industry, demand.Title}
	for _, s := range demand.Signals {
		needText = append(needText, spaced(s.Type))
		valueText = append(valueText, s.Value)
	}
	demandSide := m.expander.Expand(m.tax.Tokens(join(needText...)), expansion.SideDemand, join(valueText...))

	capText := join(supply.Capability, supply.Metadata.Services, supply.Metadata.Specialization)
	supplySide := m.expander.Expand(m.tax.Tokens(capText), expansion.SideSupply, join(capText, supply.TargetProfile))

	score := jaccard(demandSide.Tokens, supplySide.Tokens)

	switch edgeType {
	case models.EdgeLeadershipGap, models.EdgeHiring:
		if containsAny(capText, m.tax.RecruitingTerms()) {
			score += recruitingBoost
		}
	case models.EdgeGrowth:
		if containsAny(capText, m.tax.GrowthTerms()) {
			score += growthBoost
		}
	case models.EdgeSuccession:
		if containsAny(capText, m.tax.MATerms()) {
			score += successionBoost
		}
	}
	return math.Min(score, 1)
}

// FitReason explains a match using only fields present on the records.
func FitReason(demand models.DemandRecord, edge *models.Edge, supply models.SupplyRecord) string {
	var parts []string

	company := strings.TrimSpace(supply.Company)
	capability := strings.Join(strings.Fields(supply.Capability), " ")
	if company != "" && capability != "" {
		parts = append(parts, company+" focuses on "+capability+".")
	}

	demandCompany := strings.TrimSpace(demand.Company)
	if edge != nil && demandCompany != "" && strings.TrimSpace(edge.Evidence) != "" {
		parts = append(parts, demandCompany+" "+strings.TrimSpace(edge.Evidence)+".")
	}

	if len(parts) == 0 {
		return genericFitReason
	}
	return strings.Join(parts, " ")
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tok := range a {
		set[tok] = struct{}{}
	}
	union := len(set)
	inter := 0
	seen := make(map[string]struct{}, len(b))
	for _, tok := range b {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := set[tok]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if taxonomy.ContainsTerm(text, term) {
			return true
		}
	}
	return false
}

func join(parts ...string) string {
	return strings.Join(parts, " ")
}

func spaced(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
