package model

import "time"

// Submission is a community-suggested movie waiting for admin review.
// Approving one copies it into the movies table.
type Submission struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Year        int         `json:"year,omitempty"`
	Language    string      `json:"language"`
	Languages   StringSlice `json:"languages"`
	Quality     string      `json:"quality"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	WatchURL    string      `json:"watch_url"`
	DownloadURL string      `json:"download_url"`
	PosterPath  string      `json:"poster_path"`
	SubmittedBy string      `json:"submitted_by"`
	Status      string      `gorm:"index;default:pending" json:"status"`
	ReviewedAt  *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
