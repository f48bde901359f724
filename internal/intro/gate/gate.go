// Package gate is the all-or-nothing validator that runs before any copy is
// composed.
package gate

import (
	"strings"
	"unicode/utf8"

	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type Result struct {
	Passed  bool
	Reason  models.DropReason
	Details string
}

func pass() Result {
	return Result{Passed: true}
}

func fail(reason models.DropReason, details string) Result {
	return Result{Reason: reason, Details: details}
}

// Check runs the ordered checks and stops at the first failure.
func Check(demand models.DemandRecord, edge *models.Edge, cp *models.Counterparty) Result {
	if edge == nil {
		return fail(models.DropNoEdge, "no routable edge detected")
	}
	if cp == nil {
		return fail(models.DropNoCounterparty, "no supply candidate met the match threshold")
	}
	if blank(cp.FitReason) {
		return fail(models.DropNoFitReason, "counterparty has no fit reason")
	}

	required := []struct {
		value string
		name  string
	}{
		{demand.Company, "demand.company"},
		{demand.Contact, "demand.contact"},
		{cp.Company, "counterparty.company"},
		{cp.Contact, "counterparty.contact"},
	}
	for _, f := range required {
		if blank(f.value) {
			return fail(models.DropMissingRequiredFields, f.name+" is empty")
		}
	}

	if !ValidEmail(demand.Email) {
		return fail(models.DropInvalidEmail, "demand.email is not a valid address")
	}
	if !ValidEmail(cp.Email) {
		return fail(models.DropInvalidEmail, "counterparty.email is not a valid address")
	}
	return pass()
}

// ValidEmail is a structural check only: an "@" and more than three runes.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return strings.Contains(email, "@") && utf8.RuneCountInString(email) > 3
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
