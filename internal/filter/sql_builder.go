package filter

import (
	"fmt"
	"strings"
)

// Build turns a filter set into parameterized conditions for the given table.
// Every value is bound as a positional argument starting at startArgPos.
func Build(filters *QueryFilterSet, table string, alias string, startArgPos int) (*BuildResult, error) {
	if filters == nil || len(filters.Filters) == 0 {
		return &BuildResult{
			Conditions: []string{},
			Args:       []interface{}{},
			NextArgPos: startArgPos,
		}, nil
	}

	if err := Validate(filters, table); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Conditions: make([]string, 0, len(filters.Filters)),
		Args:       make([]interface{}, 0),
		NextArgPos: startArgPos,
	}

	argPos := startArgPos

	for _, f := range filters.Filters {
		var cond string
		var args []interface{}
		var nextArgPos int

		if f.Operator == OpSearch {
			cond, args, nextArgPos = buildSearchCondition(f, table, alias, argPos)
		} else {
			cond, args, nextArgPos = buildStandardCondition(f, table, alias, argPos)
		}
		if cond != "" {
			result.Conditions = append(result.Conditions, cond)
			result.Args = append(result.Args, args...)
			argPos = nextArgPos
		}
	}

	result.NextArgPos = argPos
	return result, nil
}

func buildStandardCondition(f QueryFilter, table string, tableAlias string, argPosition int) (condition string, args []interface{}, newArgPosition int) {
	safeField := safeColumnForTableAndField(table, f.Field)
	if safeField == "" {
		return "", nil, argPosition
	}
	fieldName := qualify(tableAlias, safeField)

	switch f.Operator {
	case OpEqual:
		condition = fmt.Sprintf("%s = $%d", fieldName, argPosition)
		args = []interface{}{f.Value}
		newArgPosition = argPosition + 1

	case OpIn:
		if len(f.Values) == 0 {
			return "", nil, argPosition
		}
		condition = fmt.Sprintf("%s IN (%s)", fieldName, strings.Join(Placeholders(argPosition, len(f.Values)), ", "))
		args = append([]interface{}{}, f.Values...)
		newArgPosition = argPosition + len(f.Values)

	default:
		return "", nil, argPosition
	}

	return condition, args, newArgPosition
}

// buildSearchCondition ORs one escaped ILIKE pattern across the searchable columns.
// The pattern is bound once and referenced by every column.
func buildSearchCondition(f QueryFilter, table string, tableAlias string, argPosition int) (string, []interface{}, int) {
	term, _ := f.Value.(string)
	if strings.TrimSpace(term) == "" {
		return "", nil, argPosition
	}
	columns := searchColumnsForTable(table)
	if len(columns) == 0 {
		return "", nil, argPosition
	}

	parts := make([]string, len(columns))
	for i, col := range columns {
		expr := qualify(tableAlias, col.name)
		if col.castText {
			expr = fmt.Sprintf("CAST(%s AS TEXT)", expr)
		}
		parts[i] = fmt.Sprintf("%s ILIKE $%d", expr, argPosition)
	}

	return "(" + strings.Join(parts, " OR ") + ")", []interface{}{ContainsPattern(term)}, argPosition + 1
}

type searchColumn struct {
	name     string
	castText bool
}

func searchColumnsForTable(table string) []searchColumn {
	switch table {
	case "customers":
		return []searchColumn{
			{name: "name"},
			{name: "first_name"},
			{name: "branch_code"},
			{name: "seq_id", castText: true},
		}
	case "documents":
		return []searchColumn{
			{name: "file_name"},
			{name: "document_type"},
		}
	}
	return nil
}

// ResolveSortField maps a requested sort field to a safe column name.
// It returns only string literals; user input selects which constant to return.
func ResolveSortField(table, sortBy string) string {
	normalized := strings.ToLower(strings.TrimSpace(sortBy))
	if normalized == "" {
		return GetDefaultSortField(table)
	}
	allowed := GetValidFieldsForTable(table)
	if allowed == nil || !allowed[normalized] {
		return GetDefaultSortField(table)
	}
	return safeColumnForSort(table, normalized)
}

// safeColumnForTableAndField maps a field name to a safe column name using only string literals.
// Returns empty string for unknown fields.
func safeColumnForTableAndField(table, logicalName string) string {
	switch table {
	case "customers":
		switch logicalName {
		case "customer_id":
			return "customer_id"
		case "branch_code":
			return "branch_code"
		case "seq_id":
			return "seq_id"
		case "name":
			return "name"
		case "first_name":
			return "first_name"
		case "last_name":
			return "last_name"
		case "identity_number":
			return "identity_number"
		case "secondary_id_number":
			return "secondary_id_number"
		case "phone_number":
			return "phone_number"
		case "status":
			return "status"
		case "review_status":
			return "review_status"
		case "created_at":
			return "created_at"
		}
	case "accounts":
		switch logicalName {
		case "account_id":
			return "account_id"
		case "customer_id":
			return "customer_id"
		case "branch_code":
			return "branch_code"
		case "seq_id":
			return "seq_id"
		case "account_type":
			return "account_type"
		case "currency_code":
			return "currency_code"
		}
	case "documents":
		switch logicalName {
		case "document_id":
			return "document_id"
		case "customer_id":
			return "customer_id"
		case "document_type":
			return "document_type"
		case "path":
			return "path"
		case "created_at":
			return "created_at"
		}
	}
	return ""
}

// safeColumnForSort returns a safe column for sorting, with fallback to default.
func safeColumnForSort(table, logicalName string) string {
	if col := safeColumnForTableAndField(table, logicalName); col != "" {
		return col
	}
	return GetDefaultSortField(table)
}

// BuildOrderBy constructs an ORDER BY clause using only safe, constant column names.
// A non-empty tieBreaker column is appended ascending so paging stays deterministic.
func BuildOrderBy(sortBy string, sortOrder SortOrder, table string, alias string, tieBreaker string) string {
	safeField := ResolveSortField(table, sortBy)
	fieldName := qualify(alias, safeField)

	direction := "DESC"
	if sortOrder == SortAsc {
		direction = "ASC"
	}

	clause := fmt.Sprintf("%s %s", fieldName, direction)
	if tie := safeColumnForTableAndField(table, tieBreaker); tie != "" && tie != safeField {
		clause += fmt.Sprintf(", %s ASC", qualify(alias, tie))
	}
	return clause
}
