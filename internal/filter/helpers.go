package filter

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a free-text term into an ILIKE pattern matching it anywhere.
// LIKE wildcards in the term are escaped so they match literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}

// Placeholders returns n consecutive positional placeholders starting at argPos.
func Placeholders(argPos, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d", argPos+i)
	}
	return out
}

// BuildTupleIn renders "(a.x, a.y) IN (($1, $2), ($3, $4))" with every value bound as its own
// parameter. columns must be safe column names.
func BuildTupleIn(alias string, columns []string, tuples [][]interface{}, argPos int) (string, []interface{}, int) {
	if len(tuples) == 0 || len(columns) == 0 {
		return "", nil, argPos
	}

	qualified := make([]string, len(columns))
	for i, col := range columns {
		qualified[i] = qualify(alias, col)
	}

	rows := make([]string, 0, len(tuples))
	args := make([]interface{}, 0, len(tuples)*len(columns))
	for _, tuple := range tuples {
		if len(tuple) != len(columns) {
			continue
		}
		rows = append(rows, "("+strings.Join(Placeholders(argPos, len(tuple)), ", ")+")")
		args = append(args, tuple...)
		argPos += len(tuple)
	}

	condition := fmt.Sprintf("(%s) IN (%s)", strings.Join(qualified, ", "), strings.Join(rows, ", "))
	return condition, args, argPos
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}
