package model

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// DateLayout is how row dates are rendered in keys and exports.
const DateLayout = "2006-01-02"

// Row is one transaction line. Values line up with the owning Table's Columns.
type Row struct {
	Date   time.Time
	Values []string
}

// Table is an ordered transaction history. The date column is held apart in
// Row.Date; Columns names the remaining visible columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// Value returns the cell of row i under column, or "" when the column is unknown.
func (t Table) Value(i int, column string) string {
	c := slices.Index(t.Columns, column)
	if c < 0 || i < 0 || i >= len(t.Rows) || c >= len(t.Rows[i].Values) {
		return ""
	}
	return t.Rows[i].Values[c]
}

// Append concatenates other after t, aligning columns by name. Columns only
// present in other are added at the end; missing cells are empty. Neither
// input is modified.
func (t Table) Append(other Table) Table {
	columns := slices.Clone(t.Columns)
	for _, c := range other.Columns {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}

	rows := make([]Row, 0, len(t.Rows)+len(other.Rows))
	rows = append(rows, project(t, columns)...)
	rows = append(rows, project(other, columns)...)
	return Table{Columns: columns, Rows: rows}
}

// Normalize drops duplicate rows (first occurrence wins) and sorts by date,
// most recent first. Rows sharing a date keep their relative order.
func (t Table) Normalize() Table {
	seen := make(map[string]bool, len(t.Rows))
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		k := r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
	return Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// Merge combines previously known rows with newly fetched ones. Applying the
// same batch twice yields the same table.
func (t Table) Merge(fetched Table) Table {
	return t.Append(fetched).Normalize()
}

// Key identifies a row by all of its visible cells.
func (r Row) Key() string {
	var b strings.Builder
	b.WriteString(r.Date.Format(DateLayout))
	for _, v := range r.Values {
		b.WriteByte(0x1f)
		b.WriteString(v)
	}
	return b.String()
}

func project(t Table, columns []string) []Row {
	if slices.Equal(t.Columns, columns) {
		rows := make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			rows[i] = Row{Date: r.Date, Values: padded(r.Values, len(columns))}
		}
		return rows
	}

	index := make([]int, len(columns))
	for i, c := range columns {
		index[i] = slices.Index(t.Columns, c)
	}

	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		values := make([]string, len(columns))
		for j, src := range index {
			if src >= 0 && src < len(r.Values) {
				values[j] = r.Values[src]
			}
		}
		rows[i] = Row{Date: r.Date, Values: values}
	}
	return rows
}

func padded(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}
