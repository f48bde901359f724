// Package expansion widens raw token sets with curated synonyms so that
// "m&a" on one side can meet "acquisition" on the other.
package expansion

import (
	"sort"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
)

type Side string

const (
	SideDemand Side = "demand"
	SideSupply Side = "supply"
)

// Expansion is the result of expanding one token set. Reasons records, for
// every added token, which rule added it.
type Expansion struct {
	Tokens  []string
	Reasons map[string]string
}

type Expander struct {
	tax     *taxonomy.Taxonomy
	enabled bool
}

// New returns an Expander. With enabled false every path is skipped and
// Expand returns the literal tokens only.
func New(tax *taxonomy.Taxonomy, enabled bool) *Expander {
	return &Expander{tax: tax, enabled: enabled}
}

func (e *Expander) Enabled() bool {
	return e.enabled
}

// Expand returns tokens plus everything the dictionaries, ambiguity rules and
// text sniffers add for side. Input order does not affect the result.
func (e *Expander) Expand(tokens []string, side Side, text string) Expansion {
	base := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if n := e.tax.Normalize(tok); n != "" {
			base[n] = struct{}{}
		}
	}
	ordered := sortedKeys(base)

	out := Expansion{Reasons: map[string]string{}}
	if !e.enabled {
		out.Tokens = ordered
		return out
	}

	set := make(map[string]struct{}, len(base))
	for tok := range base {
		set[tok] = struct{}{}
	}
	add := func(tok, reason string) {
		if _, ok := set[tok]; ok {
			return
		}
		set[tok] = struct{}{}
		out.Reasons[tok] = reason
	}

	for _, tok := range ordered {
		syns, ok := e.lookup(tok, side)
		if !ok {
			continue
		}
		for _, syn := range syns {
			add(syn, "taxonomy:"+tok)
		}
	}

	for _, tok := range ordered {
		amb, ok := e.tax.Ambiguity(tok)
		if !ok {
			continue
		}
		resolved, meaning := amb.Need, "need"
		cues := e.tax.NeedCues()
		if side == SideSupply {
			resolved, meaning = amb.Capability, "capability"
			cues = e.tax.CapabilityCues()
		}
		if !anyCue(text, cues) {
			continue
		}
		for _, syn := range resolved {
			add(syn, "ambiguity:"+tok+"→"+meaning)
		}
	}

	sniffers := e.tax.DemandSniffers()
	if side == SideSupply {
		sniffers = e.tax.SupplySniffers()
	}
	for _, s := range sniffers {
		if !anyCue(text, s.Keywords) {
			continue
		}
		for _, syn := range s.Adds {
			add(syn, "text:"+s.Name)
		}
	}

	out.Tokens = sortedKeys(set)
	return out
}

func (e *Expander) lookup(tok string, side Side) ([]string, bool) {
	if side == SideSupply {
		return e.tax.CapabilitySynonyms(tok)
	}
	return e.tax.NeedSynonyms(tok)
}

func anyCue(text string, cues []string) bool {
	for _, cue := range cues {
		if taxonomy.ContainsCue(text, cue) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
