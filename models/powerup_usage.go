package models

import "time"

// PowerupUsage is an append-only activation log entry. The latest row
// per (game, user, type) drives the cooldown; a short window over
// CreatedAt drives the recent-activity feed.
type PowerupUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	GameRoundID    uint      `gorm:"index:idx_usage_cooldown" json:"game_round_id"`
	UserID         uint      `gorm:"index:idx_usage_cooldown" json:"user_id"`
	TargetPlayerID uint      `json:"target_player_id,omitempty"`
	Type           string    `gorm:"index:idx_usage_cooldown" json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}
