package models

import "time"

const (
	// DefaultColor is the accent color applied when the operator leaves the
	// hex field empty.
	DefaultColor = 0x00ff00

	// DefaultMinimumBid is the opening minimum applied to fresh drafts.
	DefaultMinimumBid int64 = 10000
)

// Draft is an in-progress, not-yet-published auction specification. One
// draft exists per operator; it is reset on successful publish.
type Draft struct {
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Color        int        `json:"color"`
	Footer       string     `json:"footer,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	MinimumBid   int64      `json:"minimum_bid"`
	EndTime      *time.Time `json:"end_time,omitempty"`
}

// NewDraft returns an empty draft with defaults applied.
func NewDraft() *Draft {
	return &Draft{
		Color:      DefaultColor,
		MinimumBid: DefaultMinimumBid,
	}
}

// IsComplete reports whether every field required for publishing is set.
// Whether the end time is still in the future is re-checked at publish time.
func (d *Draft) IsComplete() bool {
	return d.Title != "" && d.Description != "" && d.MinimumBid > 0 && d.EndTime != nil
}
