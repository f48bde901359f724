// Package composer assembles the demand-side and supply-side intro bodies
// from fixed templates and refuses copy that trips the banned-phrase list.
package composer

import (
	"strings"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const (
	SideDemand = "demand"
	SideSupply = "supply"

	demandClose = "Worth an intro?"
	supplyClose = "Worth a look?"

	neutralFocusLine  = "They work with firms like yours."
	neutralTimingLine = "Their timing lines up with what you do."
	genericRole       = "the contact there"
)

type Bodies struct {
	Demand string
	Supply string
}

type Composer struct {
	tax *taxonomy.Taxonomy
}

func New(tax *taxonomy.Taxonomy) *Composer {
	return &Composer{tax: tax}
}

// Compose renders both bodies. It returns an error wrapping ErrMissingInput
// when a template field is empty, or a *PolicyError when either body
// contains a banned phrase.
func (c *Composer) Compose(demand models.DemandRecord, edge models.Edge, cp models.Counterparty, supply models.SupplyRecord) (Bodies, error) {
	demandCompany := CleanCompany(c.tax, demand.Company)
	supplyCompany := CleanCompany(c.tax, cp.Company)
	evidence := strings.TrimRight(strings.TrimSpace(edge.Evidence), ".")
	contact := strings.Join(strings.Fields(cp.Contact), " ")
	demandContact := strings.Join(strings.Fields(demand.Contact), " ")

	switch {
	case demandCompany == "":
		return Bodies{}, missing("demand company")
	case supplyCompany == "":
		return Bodies{}, missing("counterparty company")
	case contact == "":
		return Bodies{}, missing("counterparty contact")
	case demandContact == "":
		return Bodies{}, missing("demand contact")
	case evidence == "":
		return Bodies{}, missing("edge evidence")
	}

	signalLine := demandCompany + " " + evidence + "."
	capability := c.capability(supply)

	focusLine := neutralFocusLine
	timingLine := neutralTimingLine
	if capability != "" {
		focusLine = "Their focus: " + capability + "."
		timingLine = "Their timing lines up with your focus on " + lowerFirst(c.tax, capability) + "."
	}

	role := genericRole
	if title := ValidateCopy(demand.Title); title != "" {
		role = "the " + title
	}

	bodies := Bodies{
		Demand: Cleanup(strings.Join([]string{
			"Hey " + FirstName(demand.Contact) + " —",
			"",
			"I'm connected to " + contact + " at " + supplyCompany + ".",
			focusLine,
			signalLine,
			"",
			demandClose,
		}, "\n")),
		Supply: Cleanup(strings.Join([]string{
			"Hey " + FirstName(cp.Contact) + " —",
			"",
			signalLine,
			demandContact + " is " + role + ".",
			timingLine,
			"",
			supplyClose,
		}, "\n")),
	}

	if phrase, ok := c.CheckBanned(bodies.Demand); ok {
		return Bodies{}, &PolicyError{Side: SideDemand, Phrase: phrase}
	}
	if phrase, ok := c.CheckBanned(bodies.Supply); ok {
		return Bodies{}, &PolicyError{Side: SideSupply, Phrase: phrase}
	}
	return bodies, nil
}

// CheckBanned returns the first banned phrase found in text, matched
// case-insensitively.
func (c *Composer) CheckBanned(text string) (string, bool) {
	lower := strings.ToLower(strings.Join(strings.Fields(text), " "))
	for _, phrase := range c.tax.BannedPhrases() {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// capability returns the formatted capability or "" when the neutral lines
// should be used instead.
func (c *Composer) capability(supply models.SupplyRecord) string {
	raw := strings.TrimSpace(supply.Capability)
	if raw == "" || IsPersona(c.tax, raw) {
		return ""
	}
	return ValidateCopy(FormatCapability(c.tax, raw))
}
