package phonology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
)

// ErrNoCode is returned by TableDeriver for a description it has no code for.
var ErrNoCode = errors.New("no code for description")

// TableDeriver derives codes by looking a Position's description up in a
// fixed mapping.
type TableDeriver struct {
	codes map[string]string
}

// NewTableDeriver creates a TableDeriver over a copy of codes.
func NewTableDeriver(codes map[string]string) *TableDeriver {
	return &TableDeriver{codes: maps.Clone(codes)}
}

// Derive implements Deriver.
func (t *TableDeriver) Derive(pos Position) (string, error) {
	code, ok := t.codes[pos.Description]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoCode, pos.Description)
	}
	return code, nil
}

// Len returns the number of mapped descriptions.
func (t *TableDeriver) Len() int { return len(t.codes) }

// LoadTable reads a mapping file into a TableDeriver.
func LoadTable(path string) (*TableDeriver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses a mapping from r.
// Format: description<TAB>code, one per line. Blank lines and lines starting
// with '#' are ignored. A description mapped twice to different codes is an
// error; exact repeats are tolerated.
func ReadTable(r io.Reader) (*TableDeriver, error) {
	codes := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		desc, code, ok := strings.Cut(line, "\t")
		if !ok || desc == "" {
			return nil, fmt.Errorf("line %d: expected description<TAB>code", lineNum)
		}
		if prev, dup := codes[desc]; dup && prev != code {
			return nil, fmt.Errorf("line %d: %q already mapped to %q", lineNum, desc, prev)
		}
		codes[desc] = code
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &TableDeriver{codes: codes}, nil
}
