package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSort is returned when a listing is asked to sort by a field it
// does not expose.
var ErrUnknownSort = errors.New("unknown sort field")

// orderBy resolves a public sort name against columns. An empty name sorts by
// created_at. tiebreak keeps pages stable when the sort column has duplicates.
func orderBy(columns map[string]string, sort string, desc bool, tiebreak string) (string, error) {
	if sort == "" {
		sort = "created_at"
	}
	col, ok := columns[sort]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSort, sort)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return col + " " + dir + ", " + tiebreak + " " + dir, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
