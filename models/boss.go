package models

import (
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// BossBattleState tracks a cooperative encounter's lifecycle.
type BossBattleState string

const (
	BossVoting BossBattleState = "voting"
	BossActive BossBattleState = "active"
	BossWon    BossBattleState = "won"
	BossLost   BossBattleState = "lost"
)

// BossBattle is a room-scoped cooperative encounter with a shared
// health pool. Votes maps user ID to the tier that user picked during
// the selection window.
type BossBattle struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	RoomID     uint            `gorm:"index" json:"room_id"`
	Tier       int             `json:"tier"`
	MaxHealth  int             `json:"max_health"`
	Health     int             `json:"health"`
	WagerTotal int64           `json:"wager_total"`
	State      BossBattleState `json:"state"`
	ExpiresAt  time.Time       `json:"expires_at"`
	Votes      datatypes.JSON  `json:"votes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// VoteMap decodes the votes column.
func (b *BossBattle) VoteMap() map[uint]int {
	raw := map[string]int{}
	_ = json.Unmarshal(b.Votes, &raw)
	votes := make(map[uint]int, len(raw))
	for k, v := range raw {
		if id, err := strconv.ParseUint(k, 10, 64); err == nil {
			votes[uint(id)] = v
		}
	}
	return votes
}

// SetVoteMap stores the votes column.
func (b *BossBattle) SetVoteMap(votes map[uint]int) {
	raw := make(map[string]int, len(votes))
	for k, v := range votes {
		raw[strconv.FormatUint(uint64(k), 10)] = v
	}
	encoded, _ := json.Marshal(raw)
	b.Votes = datatypes.JSON(encoded)
}

// BossParticipant is one player's stake in a battle.
type BossParticipant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BossBattleID uint      `gorm:"index" json:"boss_battle_id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	Wager        int64     `json:"wager"`
	Reward       int64     `json:"reward"`
	Bingos       int       `json:"bingos"`
	CreatedAt    time.Time `json:"created_at"`
}
