package composer

import "github.com/saadbelcaidx/connector-os-sub007/internal/intro/copytext"

// ValidateCopy returns text with whitespace collapsed, or "" when it is not
// safe to interpolate into an intro.
func ValidateCopy(text string) string {
	return copytext.Validate(text)
}
