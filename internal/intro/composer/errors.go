package composer

import (
	"errors"
	"fmt"
)

var (
	ErrBannedPhrase = errors.New("banned phrase in composed copy")
	ErrMissingInput = errors.New("missing compose input")
)

// PolicyError reports the banned phrase that invalidated one side's body.
type PolicyError struct {
	Side   string
	Phrase string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s intro contains banned phrase %q", e.Side, e.Phrase)
}

func (e *PolicyError) Unwrap() error {
	return ErrBannedPhrase
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, field)
}
