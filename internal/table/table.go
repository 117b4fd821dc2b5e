// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds a raw questionnaire sheet in memory and coerces its
// cells into typed values.
package table

import (
	"strings"
	"unicode"
)

// Table is one sheet: a header row followed by data rows. Rows may be
// shorter than the header; missing cells read as empty.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	cols map[string]int
}

// New builds a table from sheet rows. The first row is the header. Empty
// rows are dropped.
func New(name string, rows [][]string) *Table {
	t := &Table{Name: name, cols: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
		key := normalizeHeader(h)
		if _, dup := t.cols[key]; !dup {
			t.cols[key] = i
		}
	}
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of header columns.
func (t *Table) Width() int {
	return len(t.Header)
}

// Cell returns the trimmed value at data row i and column col, or "" when
// the cell is out of range.
func (t *Table) Cell(i, col int) string {
	if i < 0 || i >= len(t.Rows) || col < 0 {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Lookup returns the index of the first header matching one of names.
// Headers are compared after collapsing whitespace, so non-breaking
// spaces and line breaks inside long question texts do not matter.
func (t *Table) Lookup(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := t.cols[normalizeHeader(n)]; ok {
			return i, true
		}
	}
	return -1, false
}

func normalizeHeader(h string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
