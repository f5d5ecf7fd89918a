package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrSlugTaken               = errors.New("slug already in use")
	ErrUnknownCategory         = errors.New("category does not exist")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// resolveSlug returns the explicit slug when given, otherwise one derived
// from the display name.
func resolveSlug(explicit *string, name string) (string, error) {
	slug := ""
	if explicit != nil {
		slug = strings.TrimSpace(*explicit)
	}
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" || !util.SlugPattern.MatchString(slug) {
		return "", validationErr("slug must match %s", util.SlugPattern.String())
	}
	return slug, nil
}

// translateWriteErr maps driver errors from inserts and updates to service
// errors. notFound is returned for sql.ErrNoRows.
func translateWriteErr(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrSlugTaken
		case pgForeignKeyViolation:
			return ErrUnknownCategory
		case pgCheckViolation:
			return validationErr("%s", pgErr.ConstraintName)
		}
	}
	return err
}

func translateReadErr(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func requiredText(field string, value *string) error {
	if value == nil || strings.TrimSpace(*value) == "" {
		return validationErr("%s is required", field)
	}
	return nil
}

func notBlank(field string, value *string) error {
	if value != nil && strings.TrimSpace(*value) == "" {
		return validationErr("%s cannot be empty", field)
	}
	return nil
}

func stringPtr(s string) *string { return &s }
