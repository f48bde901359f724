// Package taxonomy holds the curated vocabulary shared by expansion, matching
// and composition: need/capability dictionaries, ambiguous terms, banned
// phrases and the formatting word lists. A Taxonomy is immutable once built.
package taxonomy

import (
	"sort"
	"strings"
)

// Ambiguity describes an overloaded term and what it resolves to on each side
// when corroborating cues are present.
type Ambiguity struct {
	Need       []string `mapstructure:"need" json:"need"`
	Capability []string `mapstructure:"capability" json:"capability"`
}

// Sniffer forces Adds into an expansion whenever any keyword appears in the
// surrounding free text.
type Sniffer struct {
	Name     string   `mapstructure:"name" json:"name"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
	Adds     []string `mapstructure:"adds" json:"adds"`
}

// Definition is the plain, decodable form of a taxonomy.
type Definition struct {
	Needs          map[string][]string  `mapstructure:"needs" json:"needs"`
	Capabilities   map[string][]string  `mapstructure:"capabilities" json:"capabilities"`
	Ambiguous      map[string]Ambiguity `mapstructure:"ambiguous" json:"ambiguous"`
	NeedCues       []string             `mapstructure:"need_cues" json:"needCues"`
	CapabilityCues []string             `mapstructure:"capability_cues" json:"capabilityCues"`
	DemandSniffers []Sniffer            `mapstructure:"demand_sniffers" json:"demandSniffers"`
	SupplySniffers []Sniffer            `mapstructure:"supply_sniffers" json:"supplySniffers"`
	Stopwords      []string             `mapstructure:"stopwords" json:"stopwords"`

	BannedPhrases []string          `mapstructure:"banned_phrases" json:"bannedPhrases"`
	Acronyms      map[string]string `mapstructure:"acronyms" json:"acronyms"`
	Plurals       map[string]string `mapstructure:"plurals" json:"plurals"`
	Concepts      []string          `mapstructure:"concepts" json:"concepts"`
	PersonaTerms  []string          `mapstructure:"persona_terms" json:"personaTerms"`
	LegalSuffixes []string          `mapstructure:"legal_suffixes" json:"legalSuffixes"`

	RecruitingTerms []string `mapstructure:"recruiting_terms" json:"recruitingTerms"`
	GrowthTerms     []string `mapstructure:"growth_terms" json:"growthTerms"`
	MATerms         []string `mapstructure:"ma_terms" json:"maTerms"`
}

type Taxonomy struct {
	needs          map[string][]string
	capabilities   map[string][]string
	ambiguous      map[string]Ambiguity
	needCues       []string
	capabilityCues []string
	demandSniffers []Sniffer
	supplySniffers []Sniffer
	stopwords      map[string]struct{}

	bannedPhrases []string
	acronyms      map[string]string
	plurals       map[string]string
	concepts      []string
	personaTerms  map[string]struct{}
	legalSuffixes []string

	recruitingTerms []string
	growthTerms     []string
	maTerms         []string
}

// New builds a Taxonomy from def. Dictionary keys and synonyms go through the
// same token normalizer used at match time so lookups line up.
func New(def Definition) *Taxonomy {
	t := &Taxonomy{
		stopwords:    toSet(lowerAll(def.Stopwords)),
		personaTerms: toSet(lowerAll(def.PersonaTerms)),
	}

	t.needs = t.normalizeDictionary(def.Needs)
	t.capabilities = t.normalizeDictionary(def.Capabilities)

	t.ambiguous = make(map[string]Ambiguity, len(def.Ambiguous))
	for term, amb := range def.Ambiguous {
		t.ambiguous[t.Normalize(term)] = Ambiguity{
			Need:       t.normalizeList(amb.Need),
			Capability: t.normalizeList(amb.Capability),
		}
	}

	t.needCues = lowerAll(def.NeedCues)
	t.capabilityCues = lowerAll(def.CapabilityCues)
	t.demandSniffers = t.normalizeSniffers(def.DemandSniffers)
	t.supplySniffers = t.normalizeSniffers(def.SupplySniffers)

	t.bannedPhrases = dedupe(lowerAll(def.BannedPhrases))
	t.acronyms = lowerKeys(def.Acronyms)
	t.plurals = lowerKeys(def.Plurals)
	t.concepts = lowerAll(def.Concepts)
	t.legalSuffixes = lowerAll(def.LegalSuffixes)

	t.recruitingTerms = lowerAll(def.RecruitingTerms)
	t.growthTerms = lowerAll(def.GrowthTerms)
	t.maTerms = lowerAll(def.MATerms)

	return t
}

// WithBannedPhrases returns a copy of t whose banned list also contains extra.
func (t *Taxonomy) WithBannedPhrases(extra ...string) *Taxonomy {
	if len(extra) == 0 {
		return t
	}
	clone := *t
	clone.bannedPhrases = dedupe(append(append([]string{}, t.bannedPhrases...), lowerAll(extra)...))
	return &clone
}

func (t *Taxonomy) NeedSynonyms(term string) ([]string, bool) {
	syns, ok := t.needs[term]
	return clone(syns), ok
}

func (t *Taxonomy) CapabilitySynonyms(term string) ([]string, bool) {
	syns, ok := t.capabilities[term]
	return clone(syns), ok
}

func (t *Taxonomy) Ambiguity(term string) (Ambiguity, bool) {
	amb, ok := t.ambiguous[term]
	if !ok {
		return Ambiguity{}, false
	}
	return Ambiguity{Need: clone(amb.Need), Capability: clone(amb.Capability)}, true
}

func (t *Taxonomy) NeedCues() []string       { return clone(t.needCues) }
func (t *Taxonomy) CapabilityCues() []string { return clone(t.capabilityCues) }

func (t *Taxonomy) DemandSniffers() []Sniffer { return cloneSniffers(t.demandSniffers) }
func (t *Taxonomy) SupplySniffers() []Sniffer { return cloneSniffers(t.supplySniffers) }

func (t *Taxonomy) BannedPhrases() []string { return clone(t.bannedPhrases) }

func (t *Taxonomy) Acronym(word string) (string, bool) {
	v, ok := t.acronyms[strings.ToLower(word)]
	return v, ok
}

func (t *Taxonomy) Plural(word string) (string, bool) {
	v, ok := t.plurals[strings.ToLower(word)]
	return v, ok
}

func (t *Taxonomy) Concepts() []string      { return clone(t.concepts) }
func (t *Taxonomy) LegalSuffixes() []string { return clone(t.legalSuffixes) }

func (t *Taxonomy) IsPersonaTerm(word string) bool {
	_, ok := t.personaTerms[strings.ToLower(word)]
	return ok
}

func (t *Taxonomy) RecruitingTerms() []string { return clone(t.recruitingTerms) }
func (t *Taxonomy) GrowthTerms() []string     { return clone(t.growthTerms) }
func (t *Taxonomy) MATerms() []string         { return clone(t.maTerms) }

func (t *Taxonomy) normalizeDictionary(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for term, syns := range in {
		key := t.Normalize(term)
		out[key] = dedupe(append(out[key], t.normalizeList(syns)...))
	}
	return out
}

func (t *Taxonomy) normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := t.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return dedupe(out)
}

func (t *Taxonomy) normalizeSniffers(in []Sniffer) []Sniffer {
	out := make([]Sniffer, 0, len(in))
	for _, s := range in {
		out = append(out, Sniffer{
			Name:     strings.ToLower(s.Name),
			Keywords: lowerAll(s.Keywords),
			Adds:     t.normalizeList(s.Adds),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneSniffers(in []Sniffer) []Sniffer {
	out := make([]Sniffer, len(in))
	for i, s := range in {
		out[i] = Sniffer{Name: s.Name, Keywords: clone(s.Keywords), Adds: clone(s.Adds)}
	}
	return out
}
