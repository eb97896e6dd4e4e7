package models

import (
	"encoding/json"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/game"
	"gorm.io/datatypes"
)

// GameRound is one round within a room. CalledNumbers is append-only;
// once State is finished the row is never mutated again.
type GameRound struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	RoomID         uint            `gorm:"index" json:"room_id"`
	CalledNumbers  datatypes.JSON  `json:"called_numbers"`
	CurrentNumber  int             `json:"current_number"`
	NextNumber     int             `json:"-"` // revealed only via peek
	Pattern        game.Pattern    `json:"pattern"`
	WinnerUserID   uint            `json:"winner_user_id"`
	WinnerPlayerID uint            `json:"winner_player_id"`
	State          game.GameState  `json:"state"`
	StartedAt      time.Time       `json:"started_at"`
	EndedAt        *time.Time      `json:"ended_at,omitempty"`
	NextCallAt     time.Time       `json:"next_call_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Called decodes the called-number list.
func (g *GameRound) Called() []int {
	var numbers []int
	_ = json.Unmarshal(g.CalledNumbers, &numbers)
	return numbers
}

// SetCalled stores the called-number list.
func (g *GameRound) SetCalled(numbers []int) {
	raw, _ := json.Marshal(numbers)
	g.CalledNumbers = datatypes.JSON(raw)
}

// Over reports whether the round can no longer change.
func (g *GameRound) Over() bool {
	return g.State == game.GameFinished || g.WinnerPlayerID != 0
}
