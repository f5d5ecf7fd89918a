package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UmkmStatus string

const (
	UmkmStatusPending  UmkmStatus = "pending"
	UmkmStatusVerified UmkmStatus = "verified"
	UmkmStatusRejected UmkmStatus = "rejected"
)

var UmkmStatuses = []UmkmStatus{UmkmStatusPending, UmkmStatusVerified, UmkmStatusRejected}

func (s UmkmStatus) Valid() bool {
	switch s {
	case UmkmStatusPending, UmkmStatusVerified, UmkmStatusRejected:
		return true
	default:
		return false
	}
}

func ParseUmkmStatus(raw string) (UmkmStatus, error) {
	status := UmkmStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", errors.New("invalid umkm status")
	}
	return status, nil
}

// UmkmTransitions lists the review outcomes reachable from each status.
// Verified and rejected are final.
var UmkmTransitions = map[UmkmStatus][]UmkmStatus{
	UmkmStatusPending: {UmkmStatusVerified, UmkmStatusRejected},
}

func (s UmkmStatus) CanTransitionTo(next UmkmStatus) bool {
	for _, allowed := range UmkmTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type UmkmProduct struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Slug             string         `db:"slug" json:"slug"`
	Description      string         `db:"description" json:"description"`
	ShortDescription *string        `db:"short_description" json:"short_description,omitempty"`
	CategoryID       uuid.UUID      `db:"category_id" json:"category_id"`
	Images           pq.StringArray `db:"images" json:"images"`
	ThumbnailURL     string         `db:"thumbnail_url" json:"thumbnail_url"`
	Price            int64          `db:"price" json:"price"`
	PriceMax         *int64         `db:"price_max" json:"price_max,omitempty"`
	OwnerName        string         `db:"owner_name" json:"owner_name"`
	WhatsappNumber   string         `db:"whatsapp_number" json:"whatsapp_number"`
	IsFeatured       bool           `db:"is_featured" json:"is_featured"`
	ViewCount        int64          `db:"view_count" json:"view_count"`
	Status           UmkmStatus     `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

func (p UmkmProduct) IsVerified() bool {
	return p.Status == UmkmStatusVerified
}

func (p UmkmProduct) ItemID() uuid.UUID { return p.ID }

func (p UmkmProduct) ItemStatus() string { return string(p.Status) }

func (p UmkmProduct) ItemCategory() string { return categoryKey(p.CategoryID) }

// SearchFields are matched by the admin list search box: name or owner.
func (p UmkmProduct) SearchFields() []string {
	return []string{p.Name, p.OwnerName}
}

func (p UmkmProduct) WithStatus(status string) UmkmProduct {
	p.Status = UmkmStatus(status)
	return p
}

type UmkmFields struct {
	Name             *string     `json:"name,omitempty"`
	Slug             *string     `json:"slug,omitempty"`
	Description      *string     `json:"description,omitempty"`
	ShortDescription *string     `json:"short_description,omitempty"`
	CategoryID       *uuid.UUID  `json:"category_id,omitempty"`
	Images           *[]string   `json:"images,omitempty"`
	ThumbnailURL     *string     `json:"thumbnail_url,omitempty"`
	Price            *int64      `json:"price,omitempty"`
	PriceMax         *int64      `json:"price_max,omitempty"`
	OwnerName        *string     `json:"owner_name,omitempty"`
	WhatsappNumber   *string     `json:"whatsapp_number,omitempty"`
	IsFeatured       *bool       `json:"is_featured,omitempty"`
	Status           *UmkmStatus `json:"status,omitempty"`
}
