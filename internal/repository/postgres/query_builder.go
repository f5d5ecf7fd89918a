package postgres

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type columnKind int

const (
	kindText columnKind = iota
	kindUUID
	kindBool
)

// listSpec describes which columns of a table the collection endpoints may
// filter, search and order on. Anything else is rejected before SQL is built.
type listSpec struct {
	table     string
	columns   string
	filters   map[string]columnKind
	search    []string
	orderable map[string]bool
}

func (s listSpec) selectSQL(q domain.ListQuery) (string, []any, error) {
	where, args, err := s.where(q)
	if err != nil {
		return "", nil, err
	}
	order, err := s.orderBy(q)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", s.columns, s.table, where, order)
	return query, args, nil
}

func (s listSpec) countSQL(q domain.ListQuery) (string, []any, error) {
	where, args, err := s.where(q)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where), args, nil
}

func (s listSpec) where(q domain.ListQuery) (string, []any, error) {
	columns := make([]string, 0, len(q.Equals))
	for column := range q.Equals {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	clauses := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for _, column := range columns {
		kind, ok := s.filters[column]
		if !ok {
			return "", nil, fmt.Errorf("%w: cannot filter on %q", domain.ErrInvalidListQuery, column)
		}
		value, err := convertFilter(kind, q.Equals[column])
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidListQuery, column, err)
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if search := strings.TrimSpace(q.Search); search != "" && len(s.search) > 0 {
		args = append(args, "%"+escapeLike(search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		parts := make([]string, 0, len(s.search))
		for _, column := range s.search {
			parts = append(parts, fmt.Sprintf(`COALESCE(%s, '') ILIKE %s ESCAPE '\'`, column, placeholder))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (s listSpec) orderBy(q domain.ListQuery) (string, error) {
	column := q.OrderBy
	if column == "" {
		column = "created_at"
		q.Descending = true
	}
	if !s.orderable[column] {
		return "", fmt.Errorf("%w: cannot order by %q", domain.ErrInvalidListQuery, column)
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the search text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func convertFilter(kind columnKind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case kindUUID:
		return uuid.Parse(raw)
	case kindBool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

// setBuilder collects column assignments for INSERT and UPDATE statements.
type setBuilder struct {
	columns []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.columns = append(b.columns, column)
	b.args = append(b.args, value)
}

func (b *setBuilder) empty() bool { return len(b.columns) == 0 }

func (b *setBuilder) insertSQL(table, returning string) (string, []any) {
	placeholders := make([]string, len(b.columns))
	for i := range b.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(b.columns, ", "), strings.Join(placeholders, ", "), returning)
	return query, b.args
}

func (b *setBuilder) updateSQL(table string, id uuid.UUID, returning string) (string, []any) {
	return b.guardedUpdateSQL(table, id, "", nil, returning)
}

// guardedUpdateSQL is updateSQL that only matches while guard still equals
// value. An empty guard matches on id alone.
func (b *setBuilder) guardedUpdateSQL(table string, id uuid.UUID, guard string, value any, returning string) (string, []any) {
	parts := make([]string, 0, len(b.columns)+1)
	for i, column := range b.columns {
		parts = append(parts, fmt.Sprintf("%s = $%d", column, i+1))
	}
	parts = append(parts, "updated_at = NOW()")
	args := append(append([]any(nil), b.args...), id)
	where := fmt.Sprintf("id = $%d", len(args))
	if guard != "" {
		args = append(args, value)
		where += fmt.Sprintf(" AND %s = $%d", guard, len(args))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		table, strings.Join(parts, ", "), where, returning)
	return query, args
}

func nullString(ptr *string) sql.NullString {
	if ptr == nil {
		return sql.NullString{Valid: false}
	}
	v := strings.TrimSpace(*ptr)
	if v == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: v, Valid: true}
}

func trimmed(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return strings.TrimSpace(*ptr)
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func nullInt64(ptr *int64) sql.NullInt64 {
	if ptr == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *ptr, Valid: true}
}
