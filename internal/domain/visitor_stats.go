package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidVisitorRange = errors.New("range must be one of 24h, 7d, 30d, all")

// VisitorRange is the look-back window of a traffic report.
type VisitorRange string

const (
	VisitorRange24h VisitorRange = "24h"
	VisitorRange7d  VisitorRange = "7d"
	VisitorRange30d VisitorRange = "30d"
	VisitorRangeAll VisitorRange = "all"
)

func ParseVisitorRange(raw string) (VisitorRange, error) {
	r := VisitorRange(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case "":
		return VisitorRange7d, nil
	case VisitorRange24h, VisitorRange7d, VisitorRange30d, VisitorRangeAll:
		return r, nil
	default:
		return "", ErrInvalidVisitorRange
	}
}

// Duration is false for VisitorRangeAll.
func (r VisitorRange) Duration() (time.Duration, bool) {
	switch r {
	case VisitorRange24h:
		return 24 * time.Hour, true
	case VisitorRange7d:
		return 7 * 24 * time.Hour, true
	case VisitorRange30d:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// VisitorStats summarizes public detail-page traffic taken from the request
// log index.
type VisitorStats struct {
	Range          VisitorRange `json:"range"`
	From           *time.Time   `json:"from,omitempty"`
	To             time.Time    `json:"to"`
	PageViews      int64        `json:"page_views"`
	UniqueVisitors int64        `json:"unique_visitors"`
	TopPages       []PageViews  `json:"top_pages"`
}

type PageViews struct {
	URI   string `json:"uri"`
	Views int64  `json:"views"`
}
