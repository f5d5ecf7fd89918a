package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type fakeTourismRepo struct {
	rows map[uuid.UUID]*domain.TourismDestination

	listQueries  []domain.ListQuery
	countQueries []domain.ListQuery
	countResult  int
	countErr     error

	created   []domain.TourismFields
	createErr error
	updated   []domain.TourismFields
	updateErr error

	incremented  []uuid.UUID
	incrementErr error
	views        int64
}

func newFakeTourismRepo(rows ...domain.TourismDestination) *fakeTourismRepo {
	f := &fakeTourismRepo{rows: map[uuid.UUID]*domain.TourismDestination{}}
	for i := range rows {
		row := rows[i]
		f.rows[row.ID] = &row
	}
	return f
}

func (f *fakeTourismRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.TourismDestination, error) {
	f.listQueries = append(f.listQueries, q)
	out := make([]domain.TourismDestination, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeTourismRepo) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	f.countQueries = append(f.countQueries, q)
	return f.countResult, f.countErr
}

func (f *fakeTourismRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.TourismDestination, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (f *fakeTourismRepo) FindBySlug(ctx context.Context, slug string) (*domain.TourismDestination, error) {
	for _, row := range f.rows {
		if row.Slug == slug {
			clone := *row
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTourismRepo) Create(ctx context.Context, fields domain.TourismFields) (*domain.TourismDestination, error) {
	f.created = append(f.created, fields)
	if f.createErr != nil {
		return nil, f.createErr
	}
	row := domain.TourismDestination{ID: uuid.New(), Name: *fields.Name, Slug: *fields.Slug, Status: *fields.Status, CreatedAt: time.Now()}
	if fields.ThumbnailURL != nil {
		row.ThumbnailURL = *fields.ThumbnailURL
	}
	f.rows[row.ID] = &row
	return &row, nil
}

func (f *fakeTourismRepo) Update(ctx context.Context, id uuid.UUID, fields domain.TourismFields) (*domain.TourismDestination, error) {
	f.updated = append(f.updated, fields)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Images != nil {
		row.Images = append([]string{}, (*fields.Images)...)
	}
	if fields.ThumbnailURL != nil {
		row.ThumbnailURL = *fields.ThumbnailURL
	}
	if fields.Status != nil {
		row.Status = *fields.Status
	}
	clone := *row
	return &clone, nil
}

func (f *fakeTourismRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTourismRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	f.incremented = append(f.incremented, id)
	return f.incrementErr
}

func (f *fakeTourismRepo) SumViewCount(ctx context.Context) (int64, error) {
	return f.views, nil
}

type fakeUmkmRepo struct {
	rows map[uuid.UUID]*domain.UmkmProduct

	listQueries  []domain.ListQuery
	countResults map[string]int

	created   []domain.UmkmFields
	updated   []domain.UmkmFields
	updateErr error
	// beforeGuardedUpdate runs between the service's read and its guarded
	// write, standing in for another admin.
	beforeGuardedUpdate func()

	incremented []uuid.UUID
	views       int64
}

func newFakeUmkmRepo(rows ...domain.UmkmProduct) *fakeUmkmRepo {
	f := &fakeUmkmRepo{rows: map[uuid.UUID]*domain.UmkmProduct{}, countResults: map[string]int{}}
	for i := range rows {
		row := rows[i]
		f.rows[row.ID] = &row
	}
	return f
}

func (f *fakeUmkmRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.UmkmProduct, error) {
	f.listQueries = append(f.listQueries, q)
	out := make([]domain.UmkmProduct, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeUmkmRepo) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	return f.countResults[q.Equals["status"]], nil
}

func (f *fakeUmkmRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.UmkmProduct, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (f *fakeUmkmRepo) FindBySlug(ctx context.Context, slug string) (*domain.UmkmProduct, error) {
	for _, row := range f.rows {
		if row.Slug == slug {
			clone := *row
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUmkmRepo) Create(ctx context.Context, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	f.created = append(f.created, fields)
	row := domain.UmkmProduct{ID: uuid.New(), Name: *fields.Name, Slug: *fields.Slug, Status: *fields.Status}
	if fields.Price != nil {
		row.Price = *fields.Price
	}
	row.PriceMax = fields.PriceMax
	f.rows[row.ID] = &row
	return &row, nil
}

func (f *fakeUmkmRepo) Update(ctx context.Context, id uuid.UUID, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	f.updated = append(f.updated, fields)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Status != nil {
		row.Status = *fields.Status
	}
	if fields.Price != nil {
		row.Price = *fields.Price
	}
	if fields.Images != nil {
		row.Images = append([]string{}, (*fields.Images)...)
	}
	if fields.ThumbnailURL != nil {
		row.ThumbnailURL = *fields.ThumbnailURL
	}
	clone := *row
	return &clone, nil
}

func (f *fakeUmkmRepo) UpdateIfStatus(ctx context.Context, id uuid.UUID, expected domain.UmkmStatus, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	if f.beforeGuardedUpdate != nil {
		f.beforeGuardedUpdate()
	}
	row, ok := f.rows[id]
	if !ok || row.Status != expected {
		return nil, sql.ErrNoRows
	}
	return f.Update(ctx, id, fields)
}

func (f *fakeUmkmRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUmkmRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	f.incremented = append(f.incremented, id)
	return nil
}

func (f *fakeUmkmRepo) SumViewCount(ctx context.Context) (int64, error) {
	return f.views, nil
}

type fakeArticleRepo struct {
	rows map[uuid.UUID]*domain.Article

	countResult int

	createdBy       uuid.UUID
	createPublished *time.Time
	createFields    domain.ArticleFields
	updatePublished []*time.Time
	updateFields    []domain.ArticleFields
}

func newFakeArticleRepo(rows ...domain.Article) *fakeArticleRepo {
	f := &fakeArticleRepo{rows: map[uuid.UUID]*domain.Article{}}
	for i := range rows {
		row := rows[i]
		f.rows[row.ID] = &row
	}
	return f
}

func (f *fakeArticleRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeArticleRepo) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	return f.countResult, nil
}

func (f *fakeArticleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (f *fakeArticleRepo) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	for _, row := range f.rows {
		if row.Slug == slug {
			clone := *row
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeArticleRepo) Create(ctx context.Context, fields domain.ArticleFields, createdBy uuid.UUID, publishedAt *time.Time) (*domain.Article, error) {
	f.createFields = fields
	f.createdBy = createdBy
	f.createPublished = publishedAt
	row := domain.Article{ID: uuid.New(), Title: *fields.Title, Slug: *fields.Slug, Status: *fields.Status, PublishedAt: publishedAt, CreatedBy: createdBy}
	f.rows[row.ID] = &row
	return &row, nil
}

func (f *fakeArticleRepo) Update(ctx context.Context, id uuid.UUID, fields domain.ArticleFields, publishedAt *time.Time) (*domain.Article, error) {
	f.updateFields = append(f.updateFields, fields)
	f.updatePublished = append(f.updatePublished, publishedAt)
	row, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Status != nil {
		row.Status = *fields.Status
	}
	if fields.FeaturedImage != nil {
		row.FeaturedImage = fields.FeaturedImage
	}
	if publishedAt != nil {
		row.PublishedAt = publishedAt
	}
	clone := *row
	return &clone, nil
}

func (f *fakeArticleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}
