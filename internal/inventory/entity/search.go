package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// MatchesQuery is a case-insensitive substring match of query against any field.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(query)
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

// FilterMaterials keeps materials whose name or description match query.
func FilterMaterials(materials []Material, query string) []Material {
	out := make([]Material, 0, len(materials))
	for _, m := range materials {
		if MatchesQuery(query, m.Name, m.Description) {
			out = append(out, m)
		}
	}
	return out
}
