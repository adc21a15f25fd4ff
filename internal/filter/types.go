package filter

import "strings"

// Operator represents supported filter operators.
type Operator string

const (
	OpEqual Operator = "eq"
	OpIn    Operator = "in"
	// OpSearch matches one term against every searchable column of a table.
	OpSearch Operator = "search"
)

type QueryFilter struct {
	Field    string        `json:"field"`
	Operator Operator      `json:"operator"`
	Value    interface{}   `json:"value,omitempty"`
	Values   []interface{} `json:"values,omitempty"`
}

type QueryFilterSet struct {
	Filters []QueryFilter `json:"filters"`
}

// Add appends a filter and returns the set for chaining.
func (s *QueryFilterSet) Add(f QueryFilter) *QueryFilterSet {
	s.Filters = append(s.Filters, f)
	return s
}

// SortOrder represents the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type BuildResult struct {
	Conditions []string
	Args       []interface{}
	NextArgPos int
	OrderBy    string // The ORDER BY clause (without "ORDER BY" prefix)
}

// Where renders the conditions as a WHERE clause, or an empty string when there are none.
func (r *BuildResult) Where() string {
	if r == nil || len(r.Conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(r.Conditions, " AND ")
}
