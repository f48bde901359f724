package edge

import (
	"strconv"
	"strings"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/copytext"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

// SourceJobPosting is the provenance required by hiring-type rules.
const SourceJobPosting = "job_posting"

// Rule turns one primary signal into an edge. Rules are evaluated in slice
// order; the first rule with a qualifying signal wins.
type Rule struct {
	Name       string
	Types      []string
	Source     string // empty accepts any provenance
	Edge       models.EdgeType
	Confidence float64
	Evidence   func(models.Signal) string
}

// ContextRule describes a contextual signal that can only amplify an edge.
type ContextRule struct {
	Name     string
	Types    []string
	Evidence func(models.Signal) string
}

// DefaultRules returns the primary rules in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "leadership_opening",
			Types:      []string{"LEADERSHIP_OPENING", "LEADERSHIP_ROLE", "EXEC_HIRE"},
			Source:     SourceJobPosting,
			Edge:       models.EdgeLeadershipGap,
			Confidence: 0.90,
			Evidence:   withValue("is hiring a %s", "has an open leadership role posted"),
		},
		{
			Name:       "succession",
			Types:      []string{"SUCCESSION", "OWNER_SUCCESSION"},
			Edge:       models.EdgeSuccession,
			Confidence: 0.85,
			Evidence:   withValue("has an ownership succession signal (%s)", "has an ownership succession signal"),
		},
		{
			Name:       "hiring",
			Types:      []string{"HIRING", "JOB_POSTING", "HIRING_SURGE"},
			Source:     SourceJobPosting,
			Edge:       models.EdgeHiring,
			Confidence: 0.80,
			Evidence:   withValue("is hiring for %s", "has open roles posted"),
		},
		{
			Name:       "inc_5000",
			Types:      []string{"INC_5000", "INC5000"},
			Edge:       models.EdgeGrowth,
			Confidence: 0.75,
			Evidence:   inc5000Evidence,
		},
		{
			Name:       "growth",
			Types:      []string{"GROWTH", "EXPANSION", "HEADCOUNT_GROWTH"},
			Edge:       models.EdgeGrowth,
			Confidence: 0.70,
			Evidence:   withValue("is showing %s", "is growing"),
		},
	}
}

// DefaultContextRules returns the contextual rules in precedence order.
func DefaultContextRules() []ContextRule {
	return []ContextRule{
		{
			Name:     "funding",
			Types:    []string{"FUNDING", "FUNDING_ROUND", "RECENT_FUNDING"},
			Evidence: withValue(" and raised %s", " and closed a funding round"),
		},
		{
			Name:     "grant",
			Types:    []string{"GRANT", "NIH_GRANT", "NEW_GRANT"},
			Evidence: withValue(" and received %s", " and received a new grant"),
		},
	}
}

// withValue interpolates the signal value when it passes the copy check and
// uses fallback otherwise.
func withValue(format, fallback string) func(models.Signal) string {
	return func(s models.Signal) string {
		if v := cleanValue(s.Value); v != "" {
			return strings.Replace(format, "%s", v, 1)
		}
		return fallback
	}
}

func inc5000Evidence(s models.Signal) string {
	evidence := "made the Inc. 5000 list"
	if ts, ok := parseDate(s.Date); ok {
		return evidence + " in " + strconv.Itoa(ts.Year())
	}
	return evidence
}

func cleanValue(v string) string {
	return strings.TrimRight(copytext.Validate(v), ".")
}

// NormalizeType maps "leadership opening" and "Leadership-Opening" onto
// LEADERSHIP_OPENING.
func NormalizeType(t string) string {
	return strings.ToUpper(separatorReplacer.Replace(strings.TrimSpace(t)))
}

// NormalizeSource maps "Job Posting" and "job-posting" onto job_posting.
func NormalizeSource(s string) string {
	return strings.ToLower(separatorReplacer.Replace(strings.TrimSpace(s)))
}

var separatorReplacer = strings.NewReplacer(" ", "_", "-", "_")
