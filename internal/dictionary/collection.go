// Package dictionary assembles Rime dictionary files from converted rows:
// it aggregates rows, sorts and de-duplicates them into output lines and
// renders the YAML header blocks.
package dictionary

import "github.com/nk2028/rime-dict-builder/internal/domain"

// Collection accumulates rows for one output artifact. Insertion order is
// irrelevant: Lines fully reorders the rows.
type Collection struct {
	rows []domain.Row
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a row.
func (c *Collection) Add(row domain.Row) {
	c.rows = append(c.rows, row)
}

// AddAll appends rows.
func (c *Collection) AddAll(rows ...domain.Row) {
	c.rows = append(c.rows, rows...)
}

// Len returns the number of rows collected, duplicates included.
func (c *Collection) Len() int { return len(c.rows) }

// Rows returns a copy of the collected rows.
func (c *Collection) Rows() []domain.Row {
	out := make([]domain.Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Concat returns a new Collection holding the rows of all cs in order.
func Concat(cs ...*Collection) *Collection {
	n := 0
	for _, c := range cs {
		n += c.Len()
	}
	out := &Collection{rows: make([]domain.Row, 0, n)}
	for _, c := range cs {
		out.rows = append(out.rows, c.rows...)
	}
	return out
}
