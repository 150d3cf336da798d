package model

import (
	"time"
)

// Timestamps carried by every record the association API returns.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter captures the client-side filtering a console view applies on
// top of a fetched collection. Search is a case-insensitive substring match;
// Status and Category are exact matches. The layers compose with AND.
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Category string `form:"category"`
}

// IsZero reports whether the filter passes everything through.
func (f ListFilter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.Category == ""
}
