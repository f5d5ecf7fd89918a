package domain

import (
	"errors"
	"strings"
)

// ErrInvalidListQuery is returned for unknown columns or malformed values in
// a list request.
var ErrInvalidListQuery = errors.New("invalid list query")

// ListQuery describes the equality predicates and ordering accepted by the
// collection endpoints. Column names are checked against a per-table allow list
// before they reach SQL.
type ListQuery struct {
	Equals     map[string]string
	Search     string
	OrderBy    string
	Descending bool
}

// DefaultListQuery orders newest first, which is what every admin list uses.
func DefaultListQuery() ListQuery {
	return ListQuery{OrderBy: "created_at", Descending: true}
}

func (q ListQuery) WithEqual(column, value string) ListQuery {
	equals := make(map[string]string, len(q.Equals)+1)
	for k, v := range q.Equals {
		equals[k] = v
	}
	equals[column] = value
	q.Equals = equals
	return q
}

// ParseOrder accepts "column", "column.asc" or "column.desc".
func ParseOrder(raw string) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "created_at", true, nil
	}
	column, direction, found := strings.Cut(raw, ".")
	column = strings.TrimSpace(column)
	if column == "" {
		return "", false, errors.New("order column required")
	}
	if !found {
		return column, false, nil
	}
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "asc":
		return column, false, nil
	case "desc":
		return column, true, nil
	default:
		return "", false, errors.New("order direction must be asc or desc")
	}
}

// FormatOrder is the inverse of ParseOrder.
func FormatOrder(column string, descending bool) string {
	if column == "" {
		column = "created_at"
	}
	if descending {
		return column + ".desc"
	}
	return column + ".asc"
}
