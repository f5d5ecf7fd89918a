package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

func ParseArticleStatus(raw string) (ArticleStatus, error) {
	status := ArticleStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", errors.New("invalid article status")
	}
	return status, nil
}

type Article struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Slug          string        `db:"slug" json:"slug"`
	Content       string        `db:"content" json:"content"`
	Excerpt       *string       `db:"excerpt" json:"excerpt,omitempty"`
	FeaturedImage *string       `db:"featured_image" json:"featured_image,omitempty"`
	Category      *string       `db:"category" json:"category,omitempty"`
	Status        ArticleStatus `db:"status" json:"status"`
	PublishedAt   *time.Time    `db:"published_at" json:"published_at,omitempty"`
	CreatedBy     uuid.UUID     `db:"created_by" json:"created_by"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

func (a Article) ItemID() uuid.UUID { return a.ID }

func (a Article) ItemStatus() string { return string(a.Status) }

func (a Article) ItemCategory() string {
	if a.Category == nil {
		return ""
	}
	return *a.Category
}

func (a Article) SearchFields() []string {
	fields := []string{a.Title}
	if a.Excerpt != nil {
		fields = append(fields, *a.Excerpt)
	}
	return fields
}

func (a Article) WithStatus(status string) Article {
	a.Status = ArticleStatus(status)
	return a
}

type ArticleFields struct {
	Title         *string        `json:"title,omitempty"`
	Slug          *string        `json:"slug,omitempty"`
	Content       *string        `json:"content,omitempty"`
	Excerpt       *string        `json:"excerpt,omitempty"`
	FeaturedImage *string        `json:"featured_image,omitempty"`
	Category      *string        `json:"category,omitempty"`
	Status        *ArticleStatus `json:"status,omitempty"`
}
