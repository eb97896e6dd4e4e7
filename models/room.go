package models

import (
	"time"

	"github.com/bingoroyale/bingo-royale-backend/game"
)

// Room is a coded lobby. PrizePool accumulates every buy-in ever
// collected for it; nothing is refunded.
type Room struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Code       string          `gorm:"uniqueIndex;size:6" json:"code"`
	Name       string          `json:"name"`
	HostID     uint            `gorm:"index" json:"host_id"`
	Status     game.RoomStatus `json:"status"`
	Mode       game.Mode       `json:"mode"`
	MaxPlayers int             `json:"max_players"`
	BuyIn      int64           `json:"buy_in"`
	PrizePool  int64           `json:"prize_pool"`
	Private    bool            `json:"private"`
	Password   string          `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
