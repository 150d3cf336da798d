package model

import "time"

// BlogPost is a marketing article rendered on the public site.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Timestamps
}

// GalleryImage is one item of the public media gallery.
type GalleryImage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
	Category string `json:"category"`
	Timestamps
}
