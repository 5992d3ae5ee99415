package repository

import (
	"fmt"
	"strings"
)

// ProjectFilter narrows the project list. Zero values mean "no constraint";
// set filters compose with AND.
type ProjectFilter struct {
	Category string // exact match against the category enum
	Role     string // case-sensitive substring
	Status   string // exact match
	Year     int    // year component of start_date
}

// projectOrder is the documented default ordering: most recent first,
// undated projects last, ids as the stable tie-break.
const projectOrder = "ORDER BY start_date DESC NULLS LAST, id ASC"

// Clause renders the filter as a WHERE clause and its positional arguments.
// An empty filter yields an empty clause.
func (f ProjectFilter) Clause() (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Role != "" {
		conds = append(conds, `role LIKE `+arg(likeContains(f.Role))+` ESCAPE '\'`)
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Year != 0 {
		conds = append(conds, "EXTRACT(YEAR FROM start_date) = "+arg(f.Year))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
