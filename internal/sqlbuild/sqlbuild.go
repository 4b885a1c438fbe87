// Package sqlbuild builds parameterized SQL fragments for the data-access
// layer: SET lists for partial updates and WHERE conditions for company
// searches. Both builders are pure; values are always bound as $n
// parameters, never interpolated.
package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/justsurfingit/jobly/internal/apperr"
)

// Fragment is a piece of SQL plus the arguments for its $n placeholders.
// Placeholders run $1..$len(Args) in the order the args were appended.
type Fragment struct {
	SQL  string
	Args []any
}

// NextPlaceholder is the index the caller should use for the first parameter
// it appends after this fragment.
func (f Fragment) NextPlaceholder() int {
	return len(f.Args) + 1
}

// WhereClause returns " WHERE <sql>", or "" when there are no conditions.
func (f Fragment) WhereClause() string {
	if f.SQL == "" {
		return ""
	}
	return " WHERE " + f.SQL
}

// Assignment is one field of a partial update.
type Assignment struct {
	Field string
	Value any
}

// ColumnMap maps logical field names to column names.
type ColumnMap map[string]string

// Column resolves field to its column. Only a missing entry falls back to
// the field name itself.
func (m ColumnMap) Column(field string) string {
	if col, ok := m[field]; ok {
		return col
	}
	return field
}

// BuildSetFragment turns updates into `"col1"=$1, "col2"=$2` and the
// matching args, in slice order. Column names are quoted but not validated:
// columns must only ever map to known schema columns.
//
// An empty update is a bad request.
func BuildSetFragment(updates []Assignment, columns ColumnMap) (Fragment, error) {
	if len(updates) == 0 {
		return Fragment{}, apperr.BadRequest("No data")
	}

	clauses := make([]string, len(updates))
	args := make([]any, len(updates))
	for i, u := range updates {
		clauses[i] = fmt.Sprintf(`"%s"=$%d`, columns.Column(u.Field), i+1)
		args[i] = u.Value
	}

	return Fragment{
		SQL:  strings.Join(clauses, ", "),
		Args: args,
	}, nil
}

// CompanyFilter holds the optional company search terms. A nil field is
// absent from the search.
type CompanyFilter struct {
	NameLike     *string
	MinEmployees *int
	MaxEmployees *int
}

// BuildFilterFragment turns the present terms of f into AND-ed conditions.
// Conditions always appear in the order name, minimum, maximum and are
// numbered from $1 counting only the terms present, so a lone maximum binds
// to $1.
//
// No range checking is done here; min > max simply matches nothing.
func BuildFilterFragment(f CompanyFilter) Fragment {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	add := func(format string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if f.NameLike != nil {
		add("name ILIKE $%d", "%"+*f.NameLike+"%")
	}
	if f.MinEmployees != nil {
		add("num_employees >= $%d", *f.MinEmployees)
	}
	if f.MaxEmployees != nil {
		add("num_employees <= $%d", *f.MaxEmployees)
	}

	return Fragment{
		SQL:  strings.Join(clauses, " AND "),
		Args: args,
	}
}
