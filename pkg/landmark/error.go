package landmark

import (
	"errors"
	"fmt"
)

var ErrMalformedInput = errors.New("malformed landmark input")

type MalformedInputError struct {
	Got   int
	Want  int
	World bool
}

func (e *MalformedInputError) Error() string {
	kind := "landmarks"
	if e.World {
		kind = "world landmarks"
	}
	return fmt.Sprintf("%s: expected at least %d %s, got %d", ErrMalformedInput, e.Want, kind, e.Got)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
