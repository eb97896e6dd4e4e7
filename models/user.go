package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"uniqueIndex;size:36" json:"uuid"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Avatar    string    `json:"avatar"`
	Gems      int64     `json:"gems"`
	XP        int64     `json:"xp"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
