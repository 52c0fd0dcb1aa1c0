package repositories

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards so user input only ever matches as
// a literal substring.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// contains adds a case-insensitive substring match. Empty values are skipped.
func (w *whereBuilder) contains(column, value string) {
	if value == "" {
		return
	}
	w.clauses = append(w.clauses, fmt.Sprintf("%s ILIKE %s", column, w.arg("%"+escapeLike(value)+"%")))
}

func (w *whereBuilder) equals(column string, value any) {
	w.clauses = append(w.clauses, fmt.Sprintf("%s = %s", column, w.arg(value)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// setBuilder collects the SET list of a sparse UPDATE.
type setBuilder struct {
	sets []string
	args []any
}

func (s *setBuilder) add(column string, value *string) {
	if value == nil {
		return
	}
	s.args = append(s.args, *value)
	s.sets = append(s.sets, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setBuilder) empty() bool {
	return len(s.sets) == 0
}

// build renders "UPDATE table SET ... WHERE key = $n" with the key value as
// the last argument.
func (s *setBuilder) build(table, key string, keyValue any) (string, []any) {
	args := append(s.args, keyValue)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", table, strings.Join(s.sets, ", "), key, len(args))
	return query, args
}
