package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trackerp/fleet-api/api"
)

// rowCount receives the result of a COUNT(*) grid query
type rowCount struct {
	Count int `db:"count"`
}

// gridSearchClause builds the accent-insensitive search predicate for a grid
// query. Search fields come from the client, so they are resolved through a
// per-grid whitelist of qualified column names and never interpolated as
// identifiers. Returns an empty clause when there is nothing to search for.
func gridSearchClause(columns map[string]string, p api.GridParams) (string, []any) {
	value := p.SearchValue()
	if value == "" {
		return "", nil
	}

	if col, ok := columns[p.SearchField()]; ok {
		return fmt.Sprintf("unaccent(%s) ILIKE unaccent(?)", col), []any{"%" + value + "%"}
	}

	// no usable field, search across every whitelisted column
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range sortedValues(columns) {
		clauses = append(clauses, fmt.Sprintf("unaccent(%s) ILIKE unaccent(?)", col))
		args = append(args, "%"+value+"%")
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// gridBlockedClause restricts a grid to active or blocked rows. The column
// must be a trusted qualified name, never client input.
func gridBlockedClause(column string, p api.GridParams) string {
	switch p.Blocked() {
	case api.BlockedFilterOnly:
		return column + " = true"
	case api.BlockedFilterActive:
		return column + " = false"
	}
	return ""
}

// sortedValues returns map values in key order so generated SQL is stable
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
