package models

import (
	"encoding/json"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/game"
	"gorm.io/datatypes"
)

// RoomPlayer is one seat in a room. UserID is 0 for bots; IsBot plus
// the Bot* columns carry the cosmetic identity instead.
type RoomPlayer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RoomID        uint           `gorm:"index" json:"room_id"`
	UserID        uint           `gorm:"index" json:"user_id"`
	Card          datatypes.JSON `json:"card"`
	DaubedCount   int            `json:"daubed_count"`
	DistanceToWin int            `json:"distance_to_win"`
	ClaimedBingo  bool           `json:"claimed_bingo"`
	FrozenUntil   *time.Time     `json:"frozen_until,omitempty"`
	ShieldUntil   *time.Time     `json:"shield_until,omitempty"`
	ScrambledAt   *time.Time     `json:"scrambled_at,omitempty"`
	IsBot         bool           `json:"is_bot"`
	BotName       string         `json:"bot_name,omitempty"`
	BotAvatar     string         `json:"bot_avatar,omitempty"`
	BotDifficulty string         `json:"bot_difficulty,omitempty"`
	JoinedAt      time.Time      `json:"joined_at"`
}

// GetCard decodes the stored card grid.
func (p *RoomPlayer) GetCard() (game.Card, error) {
	var card game.Card
	err := json.Unmarshal(p.Card, &card)
	return card, err
}

// SetCard stores the card grid and refreshes the daub count.
func (p *RoomPlayer) SetCard(card game.Card) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return err
	}
	p.Card = datatypes.JSON(raw)
	p.DaubedCount = card.DaubedCount()
	return nil
}

// Frozen reports whether the seat cannot auto-daub right now.
func (p *RoomPlayer) Frozen(now time.Time) bool {
	return p.FrozenUntil != nil && now.Before(*p.FrozenUntil)
}

// Shielded reports whether hostile power-ups bounce off this seat.
func (p *RoomPlayer) Shielded(now time.Time) bool {
	return p.ShieldUntil != nil && now.Before(*p.ShieldUntil)
}

// DisplayName resolves the name to show for the seat.
func (p *RoomPlayer) DisplayName(user *User) string {
	if p.IsBot {
		return p.BotName
	}
	if user != nil {
		return user.Name
	}
	return "unknown"
}
