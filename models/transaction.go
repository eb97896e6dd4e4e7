package models

import "time"

type TransactionType string

const (
	BuyInTransaction      TransactionType = "buyin"
	PrizeTransaction      TransactionType = "prize"
	PowerupTransaction    TransactionType = "powerup"
	PenaltyTransaction    TransactionType = "penalty"
	BossWagerTransaction  TransactionType = "boss_wager"
	BossRewardTransaction TransactionType = "boss_reward"
	GrantTransaction      TransactionType = "grant"
)

// Transaction is one signed movement on a user's gem balance.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index" json:"user_id"`
	Type         TransactionType `json:"type"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}
