package services

import (
	"math/rand"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

// BotTier maps a room's buy-in to bot behavior: reaction delay, chance
// to miss a call entirely, and how many bots get seated.
type BotTier struct {
	Difficulty string
	MinBuyIn   int64
	Delay      time.Duration
	MissChance float64
	Count      int
}

// botTiers is ordered highest buy-in first; TierForBuyIn picks the
// first row the buy-in reaches.
var botTiers = []BotTier{
	{Difficulty: "expert", MinBuyIn: 2000, Delay: 200 * time.Millisecond, MissChance: 0, Count: 5},
	{Difficulty: "hard", MinBuyIn: 500, Delay: 600 * time.Millisecond, MissChance: 0.05, Count: 4},
	{Difficulty: "medium", MinBuyIn: 100, Delay: 1200 * time.Millisecond, MissChance: 0.10, Count: 3},
	{Difficulty: "easy", MinBuyIn: 0, Delay: 2 * time.Second, MissChance: 0.15, Count: 2},
}

// TierForBuyIn resolves the difficulty tier for a room's buy-in.
func TierForBuyIn(buyIn int64) BotTier {
	for _, tier := range botTiers {
		if buyIn >= tier.MinBuyIn {
			return tier
		}
	}
	return botTiers[len(botTiers)-1]
}

func tierForDifficulty(difficulty string) BotTier {
	for _, tier := range botTiers {
		if tier.Difficulty == difficulty {
			return tier
		}
	}
	return botTiers[len(botTiers)-1]
}

// botRoster is the fixed cosmetic identity pool.
var botRoster = []struct {
	Name   string
	Avatar string
}{
	{"Bingo Betty", "🤖"},
	{"Daub Daddy", "🎩"},
	{"Lucky Lucy", "🍀"},
	{"Cardshark Carl", "🦈"},
	{"Number Ned", "🎲"},
	{"Marker Mabel", "🖍️"},
	{"Freebie Fred", "⭐"},
	{"Speedy Sam", "⚡"},
}

// seedBots fills a new room with AI opponents sized to its buy-in.
// Names are drawn without replacement from the roster.
func seedBots(roomID uint, buyIn int64) {
	tier := TierForBuyIn(buyIn)

	order := rand.Perm(len(botRoster))
	for i := 0; i < tier.Count && i < len(botRoster); i++ {
		identity := botRoster[order[i]]
		seat := models.RoomPlayer{
			RoomID:        roomID,
			IsBot:         true,
			BotName:       identity.Name,
			BotAvatar:     identity.Avatar,
			BotDifficulty: tier.Difficulty,
			JoinedAt:      time.Now(),
		}
		if err := seat.SetCard(game.NewCard()); err != nil {
			continue
		}
		seat.DistanceToWin = game.Size - 1
		if err := config.DB.Create(&seat).Error; err != nil {
			logger.Errorf("seed bot in room %d: %v", roomID, err)
		}
	}
}

// BotDaub is a bot's delayed reaction to one called number. It fires
// from a timer and may arrive after the round has ended, so every
// terminal state is a silent no-op. The miss roll models imperfect
// attention at lower difficulties.
func BotDaub(roomID, playerID uint, number int, roundID uint) {
	h := handleFor(roomID)
	h.mu.Lock()

	var round models.GameRound
	if err := config.DB.First(&round, roundID).Error; err != nil || round.Over() {
		h.mu.Unlock()
		return
	}

	var room models.Room
	if err := config.DB.First(&room, roomID).Error; err != nil || room.Status != game.RoomPlaying {
		h.mu.Unlock()
		return
	}

	var seat models.RoomPlayer
	if err := config.DB.First(&seat, playerID).Error; err != nil || !seat.IsBot {
		h.mu.Unlock()
		return
	}
	if seat.Frozen(time.Now()) {
		h.mu.Unlock()
		return
	}

	tier := tierForDifficulty(seat.BotDifficulty)
	if rand.Float64() < tier.MissChance {
		h.mu.Unlock()
		return
	}

	card, err := seat.GetCard()
	if err != nil {
		h.mu.Unlock()
		return
	}
	if !card.Daub(number) {
		h.mu.Unlock()
		return
	}
	if err := seat.SetCard(card); err != nil {
		h.mu.Unlock()
		return
	}
	seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
	config.DB.Save(&seat)

	// Bots win through the same evaluator and finish path as humans.
	if game.CheckWin(&card, round.Pattern) {
		finishRoundLocked(h, &room, &round, &seat, nil)
	}
	h.mu.Unlock()

	broadcastRoom(roomID)
}
