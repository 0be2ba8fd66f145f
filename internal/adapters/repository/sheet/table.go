// Package sheet stores wishes in spreadsheet-shaped tables: ordered rows of
// text cells addressed by position, with fields located by fixed column offset.
// Each table may declare a key column, which is kept unique and indexed so a
// lookup by key does not scan the rows.
package sheet

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrRowWidth     = errors.New("row width does not match table header")
	ErrKeyImmutable = errors.New("key column cannot be modified")
)

// NoKey marks a table without a key column.
const NoKey = -1

type Table struct {
	name   string
	header []string
	keyCol int
	rows   [][]string
	index  map[string]int
}

func NewTable(name string, header []string, keyCol int) *Table {
	return &Table{
		name:   name,
		header: append([]string(nil), header...),
		keyCol: keyCol,
		index:  make(map[string]int),
	}
}

func (t *Table) Name() string { return t.name }

func (t *Table) Header() []string { return append([]string(nil), t.header...) }

func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of the row at position i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

func (t *Table) Cell(i, col int) string {
	return t.rows[i][col]
}

func (t *Table) SetCell(i, col int, value string) error {
	if col == t.keyCol {
		return ErrKeyImmutable
	}
	if col < 0 || col >= len(t.header) {
		return fmt.Errorf("column %d out of range for %s", col, t.name)
	}
	t.rows[i][col] = value
	return nil
}

// Append adds a row at the end of the table.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.header) {
		return fmt.Errorf("%w: %s expects %d cells, got %d", ErrRowWidth, t.name, len(t.header), len(row))
	}
	if t.keyCol != NoKey {
		key := row[t.keyCol]
		if _, exists := t.index[key]; exists {
			return fmt.Errorf("%w: %s %q", ErrDuplicateKey, t.name, key)
		}
		t.index[key] = len(t.rows)
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

// Lookup returns the position of the row whose key column equals key.
func (t *Table) Lookup(key string) (int, bool) {
	if t.keyCol == NoKey {
		return 0, false
	}
	i, ok := t.index[key]
	return i, ok
}

// DeleteRow removes the row at position i. Every later row shifts up by one,
// so callers deleting several rows by position must walk from the end.
func (t *Table) DeleteRow(i int) {
	if t.keyCol != NoKey {
		delete(t.index, t.rows[i][t.keyCol])
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	if t.keyCol != NoKey {
		for j := i; j < len(t.rows); j++ {
			t.index[t.rows[j][t.keyCol]] = j
		}
	}
}

func (t *Table) clone() *Table {
	c := &Table{
		name:   t.name,
		header: t.header,
		keyCol: t.keyCol,
		rows:   make([][]string, len(t.rows)),
		index:  make(map[string]int, len(t.index)),
	}
	for i, row := range t.rows {
		c.rows[i] = append([]string(nil), row...)
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}
