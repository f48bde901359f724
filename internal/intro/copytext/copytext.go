// Package copytext decides whether free text from a record is safe to
// interpolate into an intro body.
package copytext

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minCopyRunes    = 3
	maxCopyRunes    = 160
	shoutingLetters = 12
)

var danglingConnectors = map[string]struct{}{
	"and": {}, "or": {}, "with": {}, "&": {}, "for": {}, "of": {}, "to": {},
}

var sloganMarkers = []string{
	"world-class",
	"best-in-class",
	"#1",
	"industry-leading",
	"revolutionize",
	"unlock",
	"transform your",
	"10x",
	"game-changing",
}

// Validate returns text with whitespace collapsed, or "" when it is not
// safe to interpolate into an intro.
func Validate(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	n := utf8.RuneCountInString(text)
	if n < minCopyRunes || n > maxCopyRunes {
		return ""
	}
	if hasEmoji(text) || strings.Contains(text, "!") {
		return ""
	}
	if strings.HasSuffix(text, "...") || strings.HasSuffix(text, "…") {
		return ""
	}

	words := strings.Fields(strings.ToLower(text))
	if _, ok := danglingConnectors[words[len(words)-1]]; ok {
		return ""
	}

	lower := strings.ToLower(text)
	for _, marker := range sloganMarkers {
		if strings.Contains(lower, marker) {
			return ""
		}
	}
	if isShouting(text) {
		return ""
	}
	return text
}

func hasEmoji(text string) bool {
	for _, r := range text {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF,
			r >= 0x2600 && r <= 0x27BF,
			r == 0x200D, r == 0xFE0F:
			return true
		case unicode.Is(unicode.So, r):
			return true
		}
	}
	return false
}

func isShouting(text string) bool {
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters > shoutingLetters
}
