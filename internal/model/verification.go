// Package model defines database models
package model

import "time"

// VerifySettings is the single global row controlling the verification gate.
// Row 1 is created with defaults on first read and only ever updated after that.
type VerifySettings struct {
	ID           int       `gorm:"primaryKey" json:"-"`
	Enabled      bool      `json:"enabled"`
	FreeLimit    int       `json:"free_limit"`
	ValidMinutes int       `json:"valid_minutes"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionLedger tracks free clicks per browser session per calendar day.
// Day holds the date string in the configured reference zone. A row whose
// day no longer matches today is stale and gets reset in place on the next
// read, so rows never need an explicit delete to roll over.
type SessionLedger struct {
	ID            int        `gorm:"primaryKey;autoIncrement"`
	SessionID     string     `gorm:"uniqueIndex;not null"`
	Day           string     `gorm:"size:10"`
	FreeUsed      int
	VerifiedUntil *time.Time
	UpdatedAt     time.Time
}

// VerifyToken is a one-time credential binding a pending verification
// attempt to the session and destination that started it. Redeeming
// deletes the row, so a token can never be replayed.
type VerifyToken struct {
	ID        int    `gorm:"primaryKey;autoincrement"`
	Token     string `gorm:"uniqueIndex"`
	SessionID string `gorm:"index"`
	Next      string
	CreatedAt time.Time
}
