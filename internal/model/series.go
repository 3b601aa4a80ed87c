package model

import "time"

type Series struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null;index" json:"title"`
	Year        int         `json:"year,omitempty"`
	Language    string      `gorm:"index" json:"language"`
	Languages   StringSlice `json:"languages"`
	Quality     string      `json:"quality"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	PosterPath  string      `json:"poster_path"`
	Views       int64       `json:"views"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"-"`

	Seasons []Season `gorm:"foreignKey:SeriesID" json:"seasons,omitempty"`
}

type Season struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SeriesID string `gorm:"index;not null" json:"-"`
	Number   int    `gorm:"not null" json:"number"`
	Title    string `json:"title,omitempty"`

	Episodes []Episode `gorm:"foreignKey:SeasonID" json:"episodes,omitempty"`
}

type Episode struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SeasonID    uint   `gorm:"index;not null" json:"-"`
	Number      int    `gorm:"not null" json:"number"`
	Title       string `json:"title,omitempty"`
	WatchURL    string `json:"-"`
	DownloadURL string `json:"-"`
	Views       int64  `json:"views"`
}
