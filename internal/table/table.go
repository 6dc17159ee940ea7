// Package table streams dictionary source tables.
//
// A source table is UTF-8 text, one record per line:
//
//	word<TAB>input[<TAB>extra...]
//
// where input holds one or more space-separated phonological descriptions.
// Each description is converted to an output code as the line is read; the
// file is never loaded into memory as a whole.
package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nk2028/rime-dict-builder/internal/domain"
)

const maxLineSize = 1 << 20

// Converter converts the input column of a row into its output codes.
type Converter interface {
	ConvertCodes(input string) (string, error)
}

// Sink receives rows drained from a table.
type Sink interface {
	Add(row domain.Row)
}

// LineError locates a failure in a source table.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Stats holds scanner statistics for logging.
type Stats struct {
	Lines int
	Rows  int
}

// Scanner is a single-pass iterator over the rows of one table. It is finite
// and cannot be restarted; open the file again to read it twice.
//
// The first error stops the scan: no row is skipped silently.
type Scanner struct {
	path   string
	lines  *bufio.Scanner
	conv   Converter
	closer io.Closer

	row   domain.Row
	err   error
	done  bool
	stats Stats
}

// NewScanner reads rows from r. name is used in error messages only.
// A leading UTF-8 byte order mark is dropped.
func NewScanner(r io.Reader, name string, conv Converter) *Scanner {
	lines := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{path: name, lines: lines, conv: conv}
}

// Open opens the table at path. The caller must Close the scanner.
func Open(path string, conv Converter) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	s := NewScanner(f, path, conv)
	s.closer = f
	return s, nil
}

// Scan advances to the next row. It returns false at end of input or on the
// first error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	if !s.lines.Scan() {
		s.done = true
		if err := s.lines.Err(); err != nil {
			s.err = &LineError{Path: s.path, Line: s.stats.Lines + 1, Err: err}
		}
		return false
	}
	s.stats.Lines++

	row, err := s.parseLine(strings.TrimSuffix(s.lines.Text(), "\r"))
	if err != nil {
		s.done = true
		s.err = &LineError{Path: s.path, Line: s.stats.Lines, Err: err}
		return false
	}

	s.row = row
	s.stats.Rows++
	return true
}

// Row returns the row produced by the last successful Scan.
func (s *Scanner) Row() domain.Row { return s.row }

// Err returns the first error encountered, or nil at a clean end of input.
func (s *Scanner) Err() error { return s.err }

// Stats returns the counters accumulated so far.
func (s *Scanner) Stats() Stats { return s.stats }

// Close releases the underlying file, if the scanner owns one.
func (s *Scanner) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// parseLine splits a line into word, input and extra columns and converts
// the input column.
func (s *Scanner) parseLine(line string) (domain.Row, error) {
	fields := strings.Split(line, domain.FieldSep)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: expected word<TAB>input, got %q", domain.ErrMalformedRow, line)
	}

	codes, err := s.conv.ConvertCodes(fields[1])
	if err != nil {
		return nil, err
	}

	return domain.NewRow(fields[0], codes, fields[2:]...), nil
}

// LoadInto drains the table at path into dst in file order.
func LoadInto(path string, conv Converter, dst Sink) (Stats, error) {
	s, err := Open(path, conv)
	if err != nil {
		return Stats{}, err
	}
	defer s.Close()

	for s.Scan() {
		dst.Add(s.Row())
	}
	if err := s.Err(); err != nil {
		return s.Stats(), err
	}
	return s.Stats(), nil
}
