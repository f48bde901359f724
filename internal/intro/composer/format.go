package composer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
)

var (
	multiSpace       = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,?])`)
	doubledPeriod    = regexp.MustCompile(`\.{2,}`)
)

// FormatCapability is a cosmetic pass over a capability phrase: acronyms
// restored, first word sentence-cased, "and" inserted before a second
// concept and the trailing noun pluralized when known.
func FormatCapability(tax *taxonomy.Taxonomy, raw string) string {
	words := strings.Fields(strings.TrimRight(strings.TrimSpace(raw), "."))
	if len(words) == 0 {
		return ""
	}

	acronym := make([]bool, len(words))
	for i, w := range words {
		if v, ok := tax.Acronym(w); ok {
			words[i], acronym[i] = v, true
			continue
		}
		words[i] = strings.ToLower(w)
	}

	words, acronym = insertConjunction(tax, words, acronym)

	last := len(words) - 1
	if !acronym[last] {
		if plural, ok := tax.Plural(words[last]); ok {
			words[last] = plural
		}
	}

	if !acronym[0] {
		words[0] = upperFirst(words[0])
	}
	return strings.Join(words, " ")
}

// insertConjunction adds "and" before the first concept that does not open
// the phrase, unless a connector already precedes it.
func insertConjunction(tax *taxonomy.Taxonomy, words []string, acronym []bool) ([]string, []bool) {
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}

	var starts []int
	for _, concept := range tax.Concepts() {
		parts := strings.Fields(concept)
		for i := 0; i+len(parts) <= len(lower); i++ {
			if equalWords(lower[i:i+len(parts)], parts) {
				starts = append(starts, i)
			}
		}
	}
	sort.Ints(starts)

	for _, at := range starts {
		if at == 0 {
			continue
		}
		switch strings.TrimRight(lower[at-1], ",") {
		case "and", "or", "&", "plus":
			return words, acronym
		}
		words = append(words[:at], append([]string{"and"}, words[at:]...)...)
		acronym = append(acronym[:at], append([]bool{false}, acronym[at:]...)...)
		return words, acronym
	}
	return words, acronym
}

// Cleanup collapses doubled prepositions and stray spacing or periods left
// behind by template concatenation. Line breaks are preserved.
func Cleanup(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = collapsePrepositions(line)
		line = multiSpace.ReplaceAllString(line, " ")
		line = spaceBeforePunct.ReplaceAllString(line, "$1")
		line = doubledPeriod.ReplaceAllString(line, ".")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

var prepositions = map[string]struct{}{
	"with": {}, "in": {}, "for": {}, "of": {}, "to": {}, "on": {}, "at": {}, "by": {}, "from": {},
}

// concatenationArtifacts are preposition pairs that only arise from joining
// a template ending in the first word with a value starting with the second.
var concatenationArtifacts = map[[2]string]struct{}{
	{"with", "in"}: {},
}

// collapsePrepositions drops the second of two adjacent prepositions when it
// repeats the first ("in in") or forms a known artifact ("with in"). Other
// preposition pairs such as "focus on in network billing" are real wording.
func collapsePrepositions(line string) string {
	words := strings.Fields(line)
	if len(words) < 2 {
		return line
	}
	out := words[:1]
	for _, w := range words[1:] {
		prev := strings.ToLower(out[len(out)-1])
		cur := strings.ToLower(w)
		_, prevPrep := prepositions[prev]
		_, curPrep := prepositions[cur]
		if prevPrep && curPrep {
			if _, artifact := concatenationArtifacts[[2]string{prev, cur}]; artifact || prev == cur {
				continue
			}
		}
		out = append(out, w)
	}
	if len(out) == len(words) {
		return line
	}
	return strings.Join(out, " ")
}

// CleanCompany strips trailing legal suffixes such as "LLC" or ", Inc.".
func CleanCompany(tax *taxonomy.Taxonomy, name string) string {
	words := strings.Fields(name)
	for len(words) > 1 {
		last := strings.ToLower(strings.Trim(words[len(words)-1], ",()"))
		if !isLegalSuffix(tax, last) {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.TrimRight(strings.Join(words, " "), ", ")
}

// FirstName returns the first word of a contact name, or "there".
func FirstName(contact string) string {
	fields := strings.Fields(contact)
	if len(fields) == 0 {
		return "there"
	}
	if first := strings.Trim(fields[0], ",."); first != "" {
		return first
	}
	return "there"
}

// IsPersona reports whether a capability string is only a role label such as
// "Owner/Founder".
func IsPersona(tax *taxonomy.Taxonomy, capability string) bool {
	words := taxonomy.Words(capability)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !tax.IsPersonaTerm(w) {
			return false
		}
	}
	return true
}

func isLegalSuffix(tax *taxonomy.Taxonomy, word string) bool {
	for _, s := range tax.LegalSuffixes() {
		if word == s || strings.TrimRight(word, ".") == strings.TrimRight(s, ".") {
			return true
		}
	}
	return false
}

func equalWords(a, b []string) bool {
	for i := range a {
		if strings.TrimRight(a[i], ",") != b[i] {
			return false
		}
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst lowercases the first rune unless the first word is an acronym.
func lowerFirst(tax *taxonomy.Taxonomy, s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	if _, ok := tax.Acronym(fields[0]); ok {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
