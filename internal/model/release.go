package model

import "time"

// Release tracks one scraped torrent through the automation pipeline.
// SourceURL is unique so re-scraping the forum never double-processes
// a topic.
type Release struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceURL string    `gorm:"uniqueIndex;not null" json:"source_url"`
	Title     string    `gorm:"not null" json:"title"`
	Year      int       `json:"year,omitempty"`
	Magnet    string    `json:"-"`
	Quality   string    `json:"quality"`
	SizeGB    float64   `json:"size_gb"`
	Status    string    `gorm:"index;default:found" json:"status"` // found, resolving, uploading, done, failed, skipped
	Error     string    `json:"error,omitempty"`
	MovieID   string    `json:"movie_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
