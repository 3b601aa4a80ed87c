package model

import "time"

type Movie struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null;index" json:"title"`
	Year        int         `json:"year,omitempty"`
	Language    string      `gorm:"index" json:"language"`
	Languages   StringSlice `json:"languages"`
	Quality     string      `json:"quality"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Rating      float64     `json:"rating,omitempty"`
	WatchURL    string      `json:"-"` // external host, reached through /watch only
	DownloadURL string      `json:"-"`
	PosterPath  string      `json:"poster_path"`
	Views       int64       `json:"views"`
	Source      string      `json:"-"` // admin, pipeline or submission
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"-"`
}
