package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrUnknownScheme      = errors.New("unknown scheme")
	ErrUnhandledSpecial   = errors.New("unhandled special category")
	ErrInvalidInstruction = errors.New("invalid instruction for special category")
	ErrDerivation         = errors.New("derivation failed")
	ErrMalformedRow       = errors.New("malformed row")
)

// SchemeError reports a scheme name that cannot be resolved.
type SchemeError struct {
	Name string
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("unknown scheme: %q", e.Name)
}

func (e *SchemeError) Unwrap() error { return ErrUnknownScheme }

// NewSchemeError creates a SchemeError for the given scheme name.
func NewSchemeError(name string) *SchemeError {
	return &SchemeError{Name: name}
}
