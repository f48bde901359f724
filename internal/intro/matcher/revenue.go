package matcher

import (
	"math"
	"strconv"
	"strings"
)

// amountUnits maps magnitude suffixes onto a multiplier in millions.
var amountUnits = []struct {
	suffix string
	mult   float64
}{
	{"billion", 1000},
	{"million", 1},
	{"thousand", 0.001},
	{"bn", 1000},
	{"mm", 1},
	{"b", 1000},
	{"m", 1},
	{"k", 0.001},
}

// ParseRange parses revenue strings like "10-50", "$5M to $20M", "1-2b",
// "100m+" or "17.5M" into a [lo, hi] interval in millions. A single value
// yields lo == hi; a trailing "+" leaves hi unbounded.
func ParseRange(raw string) (lo, hi float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, 0, false
	}

	if strings.HasSuffix(s, "+") {
		v, _, ok := parseAmount(strings.TrimSuffix(s, "+"))
		if !ok {
			return 0, 0, false
		}
		return v, math.Inf(1), true
	}

	left, right, isRange := splitRange(s)
	if !isRange {
		v, _, ok := parseAmount(s)
		return v, v, ok
	}

	hiVal, hiMult, okHi := parseAmount(right)
	loVal, loMult, okLo := parseAmount(left)
	if !okHi || !okLo {
		return 0, 0, false
	}
	// "1-2b" means one to two billion: a bare low end borrows the high end's unit.
	if loMult == 0 && hiMult != 0 {
		loVal *= hiMult
	}
	if loVal > hiVal {
		loVal, hiVal = hiVal, loVal
	}
	return loVal, hiVal, true
}

// ParseRevenue returns a single revenue figure in millions. Ranges collapse
// to their midpoint and open ranges to their lower bound.
func ParseRevenue(raw string) (float64, bool) {
	lo, hi, ok := ParseRange(raw)
	if !ok {
		return 0, false
	}
	if math.IsInf(hi, 1) {
		return lo, true
	}
	return (lo + hi) / 2, true
}

func splitRange(s string) (string, string, bool) {
	if i := strings.Index(s, " to "); i > 0 {
		return s[:i], s[i+len(" to "):], true
	}
	if i := strings.Index(s[1:], "-"); i >= 0 {
		return s[:i+1], s[i+2:], true
	}
	return "", "", false
}

// parseAmount returns the value in millions and the multiplier of an explicit
// suffix, or 0 when the number was bare.
func parseAmount(raw string) (float64, float64, bool) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return 0, 0, false
	}

	mult := 0.0
	for _, u := range amountUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSuffix(s, u.suffix)
			mult = u.mult
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, 0, false
	}
	if mult == 0 {
		return v, 0, true
	}
	return v * mult, mult, true
}
