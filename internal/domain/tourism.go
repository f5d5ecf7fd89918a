package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TourismStatus string

const (
	TourismStatusActive   TourismStatus = "active"
	TourismStatusInactive TourismStatus = "inactive"
)

var TourismStatuses = []TourismStatus{TourismStatusActive, TourismStatusInactive}

func (s TourismStatus) Valid() bool {
	switch s {
	case TourismStatusActive, TourismStatusInactive:
		return true
	default:
		return false
	}
}

func ParseTourismStatus(raw string) (TourismStatus, error) {
	status := TourismStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", errors.New("invalid tourism status")
	}
	return status, nil
}

type TourismDestination struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Slug             string         `db:"slug" json:"slug"`
	Description      string         `db:"description" json:"description"`
	ShortDescription *string        `db:"short_description" json:"short_description,omitempty"`
	CategoryID       uuid.UUID      `db:"category_id" json:"category_id"`
	Images           pq.StringArray `db:"images" json:"images"`
	ThumbnailURL     string         `db:"thumbnail_url" json:"thumbnail_url"`
	Location         *string        `db:"location" json:"location,omitempty"`
	MapsURL          *string        `db:"maps_url" json:"maps_url,omitempty"`
	MapsEmbed        *string        `db:"maps_embed" json:"maps_embed,omitempty"`
	IsFeatured       bool           `db:"is_featured" json:"is_featured"`
	ViewCount        int64          `db:"view_count" json:"view_count"`
	Status           TourismStatus  `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

func (d TourismDestination) IsActive() bool {
	return d.Status == TourismStatusActive
}

func (d TourismDestination) ItemID() uuid.UUID { return d.ID }

func (d TourismDestination) ItemStatus() string { return string(d.Status) }

func (d TourismDestination) ItemCategory() string { return categoryKey(d.CategoryID) }

// SearchFields are matched by the admin list search box: name or location.
func (d TourismDestination) SearchFields() []string {
	fields := []string{d.Name}
	if d.Location != nil {
		fields = append(fields, *d.Location)
	}
	return fields
}

func (d TourismDestination) WithStatus(status string) TourismDestination {
	d.Status = TourismStatus(status)
	return d
}

// TourismFields carries a partial write. Nil pointers are left untouched on update.
type TourismFields struct {
	Name             *string        `json:"name,omitempty"`
	Slug             *string        `json:"slug,omitempty"`
	Description      *string        `json:"description,omitempty"`
	ShortDescription *string        `json:"short_description,omitempty"`
	CategoryID       *uuid.UUID     `json:"category_id,omitempty"`
	Images           *[]string      `json:"images,omitempty"`
	ThumbnailURL     *string        `json:"thumbnail_url,omitempty"`
	Location         *string        `json:"location,omitempty"`
	MapsURL          *string        `json:"maps_url,omitempty"`
	MapsEmbed        *string        `json:"maps_embed,omitempty"`
	IsFeatured       *bool          `json:"is_featured,omitempty"`
	Status           *TourismStatus `json:"status,omitempty"`
}

func categoryKey(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
