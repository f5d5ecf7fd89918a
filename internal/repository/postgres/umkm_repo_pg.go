package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

const umkmColumns = `id, name, slug, description, short_description,
	COALESCE(category_id, '00000000-0000-0000-0000-000000000000'::uuid) AS category_id,
	images, thumbnail_url, price, price_max, owner_name, whatsapp_number, is_featured,
	view_count, status, created_at, updated_at`

var umkmList = listSpec{
	table:   "umkm_products",
	columns: umkmColumns,
	filters: map[string]columnKind{
		"status":      kindText,
		"category_id": kindUUID,
		"is_featured": kindBool,
		"slug":        kindText,
	},
	search:    []string{"name", "owner_name"},
	orderable: map[string]bool{"created_at": true, "updated_at": true, "name": true, "price": true, "view_count": true},
}

type UmkmRepository struct {
	db *sqlx.DB
}

func NewUmkmRepo(db *sqlx.DB) *UmkmRepository {
	return &UmkmRepository{db: db}
}

func (r *UmkmRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.UmkmProduct, error) {
	query, args, err := umkmList.selectSQL(q)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.UmkmProduct, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UmkmRepository) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	query, args, err := umkmList.countSQL(q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *UmkmRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UmkmProduct, error) {
	var product domain.UmkmProduct
	if err := r.db.GetContext(ctx, &product, `SELECT `+umkmColumns+` FROM umkm_products WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *UmkmRepository) FindBySlug(ctx context.Context, slug string) (*domain.UmkmProduct, error) {
	var product domain.UmkmProduct
	if err := r.db.GetContext(ctx, &product, `SELECT `+umkmColumns+` FROM umkm_products WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *UmkmRepository) Create(ctx context.Context, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	query, args := umkmSet(fields).insertSQL("umkm_products", umkmColumns)
	var product domain.UmkmProduct
	if err := r.db.GetContext(ctx, &product, query, args...); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *UmkmRepository) Update(ctx context.Context, id uuid.UUID, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	b := umkmSet(fields)
	if b.empty() {
		return r.FindByID(ctx, id)
	}
	query, args := b.updateSQL("umkm_products", id, umkmColumns)
	var product domain.UmkmProduct
	if err := r.db.GetContext(ctx, &product, query, args...); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *UmkmRepository) UpdateIfStatus(ctx context.Context, id uuid.UUID, expected domain.UmkmStatus, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	query, args := umkmSet(fields).guardedUpdateSQL("umkm_products", id, "status", string(expected), umkmColumns)
	var product domain.UmkmProduct
	if err := r.db.GetContext(ctx, &product, query, args...); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *UmkmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "umkm_products", id)
}

func (r *UmkmRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return incrementViews(ctx, r.db, "umkm_products", id)
}

func (r *UmkmRepository) SumViewCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(view_count), 0)::bigint FROM umkm_products`)
	return total, err
}

func umkmSet(fields domain.UmkmFields) *setBuilder {
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
	if fields.Price != nil {
		b.add("price", *fields.Price)
	}
	if fields.PriceMax != nil {
		b.add("price_max", nullInt64(fields.PriceMax))
	}
	if fields.OwnerName != nil {
		b.add("owner_name", trimmed(fields.OwnerName))
	}
	if fields.WhatsappNumber != nil {
		b.add("whatsapp_number", trimmed(fields.WhatsappNumber))
	}
	if fields.IsFeatured != nil {
		b.add("is_featured", *fields.IsFeatured)
	}
	if fields.Status != nil {
		b.add("status", string(*fields.Status))
	}
	return b
}

var _ ports.UmkmRepository = (*UmkmRepository)(nil)
