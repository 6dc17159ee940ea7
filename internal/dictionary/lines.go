package dictionary

import (
	"io"
	"slices"
	"strings"

	"github.com/nk2028/rime-dict-builder/internal/domain"
)

// UnspacedSep replaces the code separator in the unspaced variant.
const UnspacedSep = "="

// LineIter yields the lines of one dictionary artifact: the header first,
// then the sorted rows with adjacent duplicates suppressed. It is single-use.
type LineIter struct {
	header   string
	rows     []domain.Row
	unspaced bool

	pos        int
	headerDone bool
	line       string
	prev       string
	emitted    int
	suppressed int
}

// Lines sorts a copy of rows with domain.CompareRows and returns an iterator
// over the resulting lines. The caller's slice is not modified.
//
// When unspaced is set, every space in the codes field is replaced with
// UnspacedSep. An empty header is not emitted. The header never takes part in
// de-duplication.
func Lines(rows []domain.Row, header string, unspaced bool) *LineIter {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, domain.CompareRows)
	return &LineIter{
		header:     header,
		rows:       sorted,
		unspaced:   unspaced,
		headerDone: header == "",
	}
}

// Next advances to the next line.
func (it *LineIter) Next() bool {
	if !it.headerDone {
		it.headerDone = true
		it.line = it.header
		return true
	}

	for it.pos < len(it.rows) {
		row := it.rows[it.pos]
		it.pos++

		if it.unspaced {
			row = row.WithCodes(strings.ReplaceAll(row.Codes(), domain.CodeSep, UnspacedSep))
		}
		line := row.Line()
		if line == it.prev {
			it.suppressed++
			continue
		}

		it.prev = line
		it.line = line
		it.emitted++
		return true
	}

	it.line = ""
	return false
}

// Line returns the current line, terminator included.
func (it *LineIter) Line() string { return it.line }

// Emitted returns the number of data lines produced so far.
func (it *LineIter) Emitted() int { return it.emitted }

// Suppressed returns the number of duplicate lines dropped so far.
func (it *LineIter) Suppressed() int { return it.suppressed }

// WriteTo drains the iterator into w.
func (it *LineIter) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for it.Next() {
		n, err := io.WriteString(w, it.Line())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
