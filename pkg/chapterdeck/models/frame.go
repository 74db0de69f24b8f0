// Package models defines data structures shared by the loading, metrics and deck layers.
package models

import "strings"

// Frame is a parsed sheet: one header row and string-valued data rows.
type Frame struct {
	// Source is the file the frame was read from.
	Source string `json:"source"`
	// Sheet is the sheet name (empty for csv sources).
	Sheet string `json:"sheet,omitempty"`
	// Columns holds the header names, deduplicated.
	Columns []string `json:"columns"`
	// Rows holds data rows padded or truncated to len(Columns).
	Rows [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (f Frame) Len() int {
	return len(f.Rows)
}

// Empty reports whether the frame has no data rows.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0
}

// ColumnIndex returns the index of the named column, or -1.
// An exact match wins over a case-insensitive one.
func (f Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	name = strings.TrimSpace(name)
	for i, c := range f.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (f Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// Column returns the values of the named column, or nil when absent.
func (f Frame) Column(name string) []string {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out
}

// Filter returns a frame holding only the rows for which keep returns true.
func (f Frame) Filter(keep func(row []string) bool) Frame {
	out := Frame{Source: f.Source, Sheet: f.Sheet, Columns: f.Columns}
	for _, row := range f.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
