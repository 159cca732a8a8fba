package spreadsheet

import (
	"fmt"
	"sort"
	"strings"
)

// Field is one logical column and the header labels that may name it, highest priority first.
type Field struct {
	Name     string
	Synonyms []string
}

// Schema is the ordered list of logical columns expected in a sheet.
type Schema []Field

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveColumn returns the index of the first header cell containing a synonym, trying
// synonyms in priority order. Matching is trimmed, case-insensitive substring containment.
// It returns -1 when nothing matches. First match wins; there is no uniqueness check.
func ResolveColumn(header []string, synonyms []string) int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}
	for _, syn := range synonyms {
		needle := normalizeHeader(syn)
		for i, h := range normalized {
			if strings.Contains(h, needle) {
				return i
			}
		}
	}
	return -1
}

// ColumnMap is the resolved position of every schema field in one sheet load.
type ColumnMap struct {
	indices map[string]int
	order   []string
}

// ResolveColumns builds the column table for a header row.
func ResolveColumns(header []string, schema Schema) ColumnMap {
	m := ColumnMap{indices: make(map[string]int, len(schema))}
	for _, f := range schema {
		m.indices[f.Name] = ResolveColumn(header, f.Synonyms)
		m.order = append(m.order, f.Name)
	}
	return m
}

// Index returns the column of field, or (-1, false) when it was not found.
func (m ColumnMap) Index(field string) (int, bool) {
	i, ok := m.indices[field]
	if !ok || i < 0 {
		return -1, false
	}
	return i, true
}

// Position is Index without the flag: -1 for an unresolved field.
func (m ColumnMap) Position(field string) int {
	i, _ := m.Index(field)
	return i
}

// Cell returns the value of field in row, or "" if the column is unresolved or the row is short.
func (m ColumnMap) Cell(row []string, field string) string {
	i, ok := m.Index(field)
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Require reports the first of fields that could not be resolved.
func (m ColumnMap) Require(fields ...string) error {
	for _, f := range fields {
		if _, ok := m.Index(f); !ok {
			return &ColumnMissingError{Field: f}
		}
	}
	return nil
}

// Collisions lists groups of fields that resolved to the same column.
func (m ColumnMap) Collisions() map[int][]string {
	byColumn := make(map[int][]string)
	for _, name := range m.order {
		if i := m.indices[name]; i >= 0 {
			byColumn[i] = append(byColumn[i], name)
		}
	}
	out := make(map[int][]string)
	for col, names := range byColumn {
		if len(names) > 1 {
			sort.Strings(names)
			out[col] = names
		}
	}
	return out
}

type ColumnMissingError struct {
	Field string
}

func (e *ColumnMissingError) Error() string {
	return fmt.Sprintf("column %q not found in header", e.Field)
}
