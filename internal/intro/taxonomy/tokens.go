package taxonomy

import (
	"strings"
	"unicode"
)

// Words splits text into lowercase words without stopword removal or
// singularizing. Word characters are letters, digits and '&'; a '-' is kept
// only between two word characters.
func Words(text string) []string {
	runes := []rune(strings.ToLower(text))
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if w := cur.String(); hasAlnum(w) {
			words = append(words, w)
		}
		cur.Reset()
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			cur.WriteRune(r)
		case r == '-' && cur.Len() > 0 && i+1 < len(runes) && isWordRune(runes[i+1]):
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// Tokens returns the distinct semantic tokens of text in order of first
// appearance: stopwords dropped, each word normalized.
func (t *Taxonomy) Tokens(text string) []string {
	words := Words(text)
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := t.stopwords[w]; stop {
			continue
		}
		n := singularize(w)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Normalize maps a single term onto its token form.
func (t *Taxonomy) Normalize(term string) string {
	return singularize(strings.ToLower(strings.TrimSpace(term)))
}

// IsStopword reports whether word is dropped during tokenization.
func (t *Taxonomy) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// ContainsTerm reports whether term occurs in text as a run of whole words,
// compared after singularizing. "search" does not match "research" and
// "scale" does not match "large-scale".
func ContainsTerm(text, term string) bool {
	want := Words(term)
	if len(want) == 0 {
		return false
	}
	for i := range want {
		want[i] = singularize(want[i])
	}
	have := Words(text)
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j, w := range want {
			if singularize(have[i+j]) != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ContainsCue reports whether cue occurs in text at the start of a word, so
// "recruit" matches "recruiting" but "team" does not match "steam".
func ContainsCue(text, cue string) bool {
	text = strings.ToLower(text)
	cue = strings.ToLower(strings.TrimSpace(cue))
	if cue == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], cue)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 || !isWordByte(text[pos-1]) {
			return true
		}
		offset = pos + 1
	}
	return false
}

func singularize(w string) string {
	if len([]rune(w)) <= 4 || !strings.HasSuffix(w, "s") {
		return w
	}
	for _, keep := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(w, keep) {
			return w
		}
	}
	return strings.TrimSuffix(w, "s")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&'
}

func isWordByte(b byte) bool {
	return b == '&' || b >= 0x80 || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func hasAlnum(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
