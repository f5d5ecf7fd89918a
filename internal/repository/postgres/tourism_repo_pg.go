package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

const tourismColumns = `id, name, slug, description, short_description,
	COALESCE(category_id, '00000000-0000-0000-0000-000000000000'::uuid) AS category_id,
	images, thumbnail_url, location, maps_url, maps_embed, is_featured, view_count,
	status, created_at, updated_at`

var tourismList = listSpec{
	table:   "tourism_destinations",
	columns: tourismColumns,
	filters: map[string]columnKind{
		"status":      kindText,
		"category_id": kindUUID,
		"is_featured": kindBool,
		"slug":        kindText,
	},
	search:    []string{"name", "location"},
	orderable: map[string]bool{"created_at": true, "updated_at": true, "name": true, "view_count": true},
}

type TourismRepository struct {
	db *sqlx.DB
}

func NewTourismRepo(db *sqlx.DB) *TourismRepository {
	return &TourismRepository{db: db}
}

func (r *TourismRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.TourismDestination, error) {
	query, args, err := tourismList.selectSQL(q)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.TourismDestination, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TourismRepository) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	query, args, err := tourismList.countSQL(q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TourismRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TourismDestination, error) {
	var dest domain.TourismDestination
	if err := r.db.GetContext(ctx, &dest, `SELECT `+tourismColumns+` FROM tourism_destinations WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *TourismRepository) FindBySlug(ctx context.Context, slug string) (*domain.TourismDestination, error) {
	var dest domain.TourismDestination
	if err := r.db.GetContext(ctx, &dest, `SELECT `+tourismColumns+` FROM tourism_destinations WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *TourismRepository) Create(ctx context.Context, fields domain.TourismFields) (*domain.TourismDestination, error) {
	b := tourismSet(fields)
	query, args := b.insertSQL("tourism_destinations", tourismColumns)
	var dest domain.TourismDestination
	if err := r.db.GetContext(ctx, &dest, query, args...); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *TourismRepository) Update(ctx context.Context, id uuid.UUID, fields domain.TourismFields) (*domain.TourismDestination, error) {
	b := tourismSet(fields)
	if b.empty() {
		return r.FindByID(ctx, id)
	}
	query, args := b.updateSQL("tourism_destinations", id, tourismColumns)
	var dest domain.TourismDestination
	if err := r.db.GetContext(ctx, &dest, query, args...); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *TourismRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "tourism_destinations", id)
}

func (r *TourismRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return incrementViews(ctx, r.db, "tourism_destinations", id)
}

func (r *TourismRepository) SumViewCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(view_count), 0)::bigint FROM tourism_destinations`)
	return total, err
}

func tourismSet(fields domain.TourismFields) *setBuilder {
	b := &setBuilder{}
	if fields.Name != nil {
		b.add("name", trimmed(fields.Name))
	}
	if fields.Slug != nil {
		b.add("slug", trimmed(fields.Slug))
	}
	if fields.Description != nil {
		b.add("description", *fields.Description)
	}
	if fields.ShortDescription != nil {
		b.add("short_description", nullString(fields.ShortDescription))
	}
	if fields.CategoryID != nil {
		b.add("category_id", nullUUID(*fields.CategoryID))
	}
	if fields.Images != nil {
		b.add("images", pq.StringArray(append([]string{}, (*fields.Images)...)))
	}
	if fields.ThumbnailURL != nil {
		b.add("thumbnail_url", trimmed(fields.ThumbnailURL))
	}
	if fields.Location != nil {
		b.add("location", nullString(fields.Location))
	}
	if fields.MapsURL != nil {
		b.add("maps_url", nullString(fields.MapsURL))
	}
	if fields.MapsEmbed != nil {
		b.add("maps_embed", nullString(fields.MapsEmbed))
	}
	if fields.IsFeatured != nil {
		b.add("is_featured", *fields.IsFeatured)
	}
	if fields.Status != nil {
		b.add("status", string(*fields.Status))
	}
	return b
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func incrementViews(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, `UPDATE `+table+` SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.TourismRepository = (*TourismRepository)(nil)
