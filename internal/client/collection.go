package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/listing"
)

// Collection binds one admin collection to the list screen's Remote.
type Collection[T any] struct {
	client *Client
	name   string
	query  domain.ListQuery
}

func NewCollection[T any](c *Client, name string) *Collection[T] {
	return &Collection[T]{client: c, name: name, query: domain.DefaultListQuery()}
}

// WithQuery narrows what List fetches. Ordering defaults to newest first.
func (c *Collection[T]) WithQuery(q domain.ListQuery) *Collection[T] {
	if q.OrderBy == "" {
		q.OrderBy, q.Descending = "created_at", true
	}
	return &Collection[T]{client: c.client, name: c.name, query: q}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := c.client.Select(ctx, c.name, c.query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	return c.client.Count(ctx, c.name, c.query)
}

func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return c.client.Delete(ctx, c.name, id)
}

func (c *Collection[T]) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return c.client.Update(ctx, c.name, id, map[string]string{"status": status}, nil)
}

var (
	_ listing.Remote[domain.TourismDestination] = (*Collection[domain.TourismDestination])(nil)
	_ listing.Remote[domain.UmkmProduct]        = (*Collection[domain.UmkmProduct])(nil)
	_ listing.Remote[domain.Article]            = (*Collection[domain.Article])(nil)
)
