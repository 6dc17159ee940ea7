// Package phonology defines the derivation capability the dictionary build
// depends on: a Parser turning a description into a Position and a Deriver
// turning a Position into an output code.
//
// The build never depends on a concrete phonological engine. Any value that
// satisfies Parser and Deriver can back a scheme; TableDeriver is a small
// built-in implementation driven by a mapping file.
package phonology

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedDescription is returned by DefaultParser for descriptions it
// cannot interpret.
var ErrMalformedDescription = errors.New("malformed description")

// Position is a parsed phonological description.
type Position struct {
	Description string // the description text the position was parsed from
	Syllable    string // description without its tone suffix
	Tone        string // trailing tone digits, may be empty
}

func (p Position) String() string { return p.Description }

// Parser turns a description into a structured Position.
type Parser interface {
	Parse(desc string) (Position, error)
}

// Deriver computes the output code of a Position for one scheme.
type Deriver interface {
	Derive(pos Position) (string, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(desc string) (Position, error)

func (f ParserFunc) Parse(desc string) (Position, error) { return f(desc) }

// DeriverFunc adapts a function to the Deriver interface.
type DeriverFunc func(pos Position) (string, error)

func (f DeriverFunc) Derive(pos Position) (string, error) { return f(pos) }

// DefaultParser accepts any non-empty description without whitespace or a
// leading '!' and splits off a trailing run of ASCII digits as the tone.
var DefaultParser Parser = ParserFunc(ParseDescription)

// ParseDescription is the function behind DefaultParser.
func ParseDescription(desc string) (Position, error) {
	if desc == "" {
		return Position{}, fmt.Errorf("%w: empty", ErrMalformedDescription)
	}
	if strings.HasPrefix(desc, "!") {
		return Position{}, fmt.Errorf("%w: %q is an override marker", ErrMalformedDescription, desc)
	}
	if strings.IndexFunc(desc, unicode.IsSpace) >= 0 {
		return Position{}, fmt.Errorf("%w: %q contains whitespace", ErrMalformedDescription, desc)
	}

	syllable := strings.TrimRightFunc(desc, func(r rune) bool { return r >= '0' && r <= '9' })
	if syllable == "" {
		return Position{}, fmt.Errorf("%w: %q has no syllable", ErrMalformedDescription, desc)
	}

	return Position{
		Description: desc,
		Syllable:    syllable,
		Tone:        desc[len(syllable):],
	}, nil
}
