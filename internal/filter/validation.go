package filter

import (
	"fmt"
)

// Validate checks every filter against the allow-list of its table.
func Validate(filters *QueryFilterSet, table string) error {
	if filters == nil {
		return nil
	}

	validFields := GetValidFieldsForTable(table)
	if len(validFields) == 0 {
		return fmt.Errorf("unsupported table for filtering: %s", table)
	}

	for _, f := range filters.Filters {
		if f.Operator == OpSearch {
			if len(searchColumnsForTable(table)) == 0 {
				return fmt.Errorf("table '%s' has no searchable columns", table)
			}
			continue
		}
		if !validFields[f.Field] {
			return fmt.Errorf("invalid field '%s' for table '%s'", f.Field, table)
		}
		switch f.Operator {
		case OpEqual:
		case OpIn:
			if len(f.Values) == 0 {
				return fmt.Errorf("operator 'in' on field '%s' requires at least one value", f.Field)
			}
		default:
			return fmt.Errorf("unsupported operator '%s' on field '%s'", f.Operator, f.Field)
		}
	}

	return nil
}

func GetValidFieldsForTable(table string) map[string]bool {
	switch table {
	case "customers":
		return map[string]bool{
			"customer_id":         true,
			"branch_code":         true,
			"seq_id":              true,
			"name":                true,
			"first_name":          true,
			"last_name":           true,
			"identity_number":     true,
			"secondary_id_number": true,
			"phone_number":        true,
			"status":              true,
			"review_status":       true,
			"created_at":          true,
		}
	case "accounts":
		return map[string]bool{
			"account_id":    true,
			"customer_id":   true,
			"branch_code":   true,
			"seq_id":        true,
			"account_type":  true,
			"currency_code": true,
		}
	case "documents":
		return map[string]bool{
			"document_id":   true,
			"customer_id":   true,
			"document_type": true,
			"path":          true,
			"created_at":    true,
		}
	default:
		return nil
	}
}

// GetDefaultSortField returns the column a table sorts by when none is requested.
func GetDefaultSortField(table string) string {
	switch table {
	case "customers":
		return "name"
	case "accounts":
		return "account_id"
	case "documents":
		return "created_at"
	default:
		return "created_at"
	}
}
