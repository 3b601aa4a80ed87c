package model

import "time"

type SupportMessage struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Email            string    `json:"email,omitempty"`
	TelegramUsername string    `json:"telegram_username,omitempty"`
	Message          string    `gorm:"not null" json:"message"`
	Status           string    `gorm:"index;default:pending" json:"status"` // pending, replied or closed
	IP               string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}
