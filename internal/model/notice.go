package model

import "time"

// Notice is the single site-wide banner row
type Notice struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // info, warning or maintenance
	Icon      string    `json:"icon"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}
