// Package converter turns phonological descriptions into scheme output codes.
// It memoizes derivations and applies a scheme's override table to
// descriptions marked with a leading '!'.
package converter

import (
	"fmt"
	"strings"

	"github.com/nk2028/rime-dict-builder/internal/domain"
	"github.com/nk2028/rime-dict-builder/internal/phonology"
)

const (
	specialPrefix    = "!"
	substitutePrefix = ">"
	rewritePrefix    = "="
)

// SpecialError reports an override lookup failure. Err is either
// domain.ErrUnhandledSpecial or domain.ErrInvalidInstruction.
type SpecialError struct {
	Value string
	Err   error
}

func (e *SpecialError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Value)
}

func (e *SpecialError) Unwrap() error { return e.Err }

// Stats counts converter activity for logging.
type Stats struct {
	CacheSize     int
	CacheHits     int
	Derivations   int
	Substitutions int
}

// Converter is scoped to one scheme and one build run. The cache only grows.
// A Converter is not safe for concurrent use.
type Converter struct {
	parser    phonology.Parser
	deriver   phonology.Deriver
	overrides Overrides
	cache     map[string]string
	stats     Stats
}

// New creates a Converter. A nil parser falls back to phonology.DefaultParser.
func New(parser phonology.Parser, deriver phonology.Deriver, overrides Overrides) *Converter {
	if parser == nil {
		parser = phonology.DefaultParser
	}
	return &Converter{
		parser:    parser,
		deriver:   deriver,
		overrides: overrides,
		cache:     make(map[string]string),
	}
}

// Convert returns the output code for a single description.
//
// A description "!K" is resolved through the override table: ">X" yields X
// without derivation, "=D" continues with D as if D had been given.
func (c *Converter) Convert(desc string) (string, error) {
	if key, marked := strings.CutPrefix(desc, specialPrefix); marked {
		instr, ok := c.overrides[key]
		if !ok {
			return "", &SpecialError{Value: desc, Err: domain.ErrUnhandledSpecial}
		}
		switch {
		case strings.HasPrefix(instr, substitutePrefix):
			c.stats.Substitutions++
			return instr[len(substitutePrefix):], nil
		case strings.HasPrefix(instr, rewritePrefix):
			desc = instr[len(rewritePrefix):]
		default:
			return "", &SpecialError{Value: fmt.Sprintf("%s = %q", desc, instr), Err: domain.ErrInvalidInstruction}
		}
	}

	if code, ok := c.cache[desc]; ok {
		c.stats.CacheHits++
		return code, nil
	}

	pos, err := c.parser.Parse(desc)
	if err != nil {
		return "", fmt.Errorf("%w: parse %q: %w", domain.ErrDerivation, desc, err)
	}
	code, err := c.deriver.Derive(pos)
	if err != nil {
		return "", fmt.Errorf("%w: derive %q: %w", domain.ErrDerivation, desc, err)
	}
	c.stats.Derivations++

	c.cache[desc] = code
	return code, nil
}

// ConvertCodes converts every space-separated description of input and
// joins the results with a single space.
func (c *Converter) ConvertCodes(input string) (string, error) {
	descs := strings.Split(input, domain.CodeSep)
	codes := make([]string, len(descs))
	for i, d := range descs {
		code, err := c.Convert(d)
		if err != nil {
			return "", err
		}
		codes[i] = code
	}
	return strings.Join(codes, domain.CodeSep), nil
}

// Stats returns a snapshot of the converter counters.
func (c *Converter) Stats() Stats {
	s := c.stats
	s.CacheSize = len(c.cache)
	return s
}
