package models

import "time"

// ChatMessage is an append-only room chat entry. UserID 0 means a
// system message narrating a game event.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"index" json:"room_id"`
	UserID    uint      `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
