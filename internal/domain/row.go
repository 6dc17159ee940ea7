package domain

import "strings"

// Field and code separators used by source tables and dictionary files.
const (
	FieldSep = "\t"
	CodeSep  = " "
)

// Row is one dictionary record: word, codes, then any passthrough columns.
// A Row is never mutated after creation; transforms return a copy.
type Row []string

// NewRow builds a Row from a word, its converted codes and extra columns.
func NewRow(word, codes string, extra ...string) Row {
	r := make(Row, 0, 2+len(extra))
	r = append(r, word, codes)
	return append(r, extra...)
}

// Word returns the headword, or "" for an empty row.
func (r Row) Word() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Codes returns the space-separated output codes.
func (r Row) Codes() string {
	if len(r) < 2 {
		return ""
	}
	return r[1]
}

// Extra returns the passthrough columns after codes.
func (r Row) Extra() []string {
	if len(r) < 3 {
		return nil
	}
	return r[2:]
}

// WithCodes returns a copy of r whose codes field is replaced.
func (r Row) WithCodes(codes string) Row {
	out := make(Row, len(r))
	copy(out, r)
	if len(out) > 1 {
		out[1] = codes
	}
	return out
}

// Line joins the fields with FieldSep and terminates the line with '\n'.
func (r Row) Line() string {
	return strings.Join(r, FieldSep) + "\n"
}
