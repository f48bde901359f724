// internal/models/introduction.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Signal struct {
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
}

// UnmarshalJSON accepts numeric values, e.g. an Inc. 5000 rank, and renders
// them as text.
func (s *Signal) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   string      `json:"type"`
		Value  interface{} `json:"value"`
		Date   interface{} `json:"date"`
		Source string      `json:"source"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode signal: %w", err)
	}
	*s = Signal{
		Type:   raw.Type,
		Value:  textOf(raw.Value),
		Date:   textOf(raw.Date),
		Source: raw.Source,
	}
	return nil
}

type DemandRecord struct {
	Domain   string         `json:"domain"`
	Company  string         `json:"company"`
	Contact  string         `json:"contact"`
	Email    string         `json:"email"`
	Title    string         `json:"title"`
	Industry string         `json:"industry"`
	Signals  []Signal       `json:"signals"`
	Metadata DemandMetadata `json:"metadata"`
}

type SupplyRecord struct {
	Domain        string         `json:"domain"`
	Company       string         `json:"company"`
	Contact       string         `json:"contact"`
	Email         string         `json:"email"`
	Title         string         `json:"title"`
	Capability    string         `json:"capability"`
	TargetProfile string         `json:"targetProfile"`
	Metadata      SupplyMetadata `json:"metadata"`
}

// IsNamed reports whether the record carries a named contact and an email.
// Only named supply is eligible as a counterparty.
func (s SupplyRecord) IsNamed() bool {
	return strings.TrimSpace(s.Contact) != "" && strings.TrimSpace(s.Email) != ""
}

type EdgeType string

const (
	EdgeLeadershipGap EdgeType = "LEADERSHIP_GAP"
	EdgeSuccession    EdgeType = "SUCCESSION"
	EdgeHiring        EdgeType = "HIRING"
	EdgeGrowth        EdgeType = "GROWTH"
)

type Edge struct {
	Type       EdgeType `json:"type"`
	Evidence   string   `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

type Counterparty struct {
	Company   string `json:"company"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Title     string `json:"title"`
	FitReason string `json:"fitReason"`
}

type Intro struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type IntroPayload struct {
	Demand     DemandRecord `json:"demand"`
	Supply     SupplyRecord `json:"supply"`
	Edge       Edge         `json:"edge"`
	FitReason  string       `json:"fitReason"`
	MatchScore float64      `json:"matchScore"`
}

type IntroOutput struct {
	DemandIntro Intro        `json:"demandIntro"`
	SupplyIntro Intro        `json:"supplyIntro"`
	Payload     IntroPayload `json:"payload"`
}

type DropReason string

const (
	DropNoEdge                DropReason = "NO_EDGE"
	DropNoCounterparty        DropReason = "NO_COUNTERPARTY"
	DropNoFitReason           DropReason = "NO_FIT_REASON"
	DropInvalidEmail          DropReason = "INVALID_EMAIL"
	DropMissingRequiredFields DropReason = "MISSING_REQUIRED_FIELDS"
	DropPolicyViolation       DropReason = "POLICY_VIOLATION"
)

// DropReasons lists every drop reason in reporting order.
var DropReasons = []DropReason{
	DropNoEdge,
	DropNoCounterparty,
	DropNoFitReason,
	DropInvalidEmail,
	DropMissingRequiredFields,
	DropPolicyViolation,
}

// PipelineResult is either a drop (Dropped, Reason, Details) or a composed
// introduction (Output). The two halves are never both set.
type PipelineResult struct {
	Dropped bool         `json:"dropped"`
	Reason  DropReason   `json:"reason,omitempty"`
	Details string       `json:"details,omitempty"`
	Output  *IntroOutput `json:"output,omitempty"`
}

func Drop(reason DropReason, details string) PipelineResult {
	return PipelineResult{Dropped: true, Reason: reason, Details: details}
}

func Composed(output IntroOutput) PipelineResult {
	return PipelineResult{Output: &output}
}

func (r PipelineResult) IsComposed() bool {
	return !r.Dropped && r.Output != nil
}

type Stats struct {
	Total       int                `json:"total"`
	Composed    int                `json:"composed"`
	Dropped     int                `json:"dropped"`
	DropReasons map[DropReason]int `json:"dropReasons"`
}
