package domain

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeTourism CategoryType = "tourism"
	CategoryTypeUmkm    CategoryType = "umkm"
)

type Category struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Slug      string       `db:"slug" json:"slug"`
	Type      CategoryType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
