package services

import (
	"testing"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForBuyIn(t *testing.T) {
	cases := []struct {
		buyIn int64
		want  string
	}{
		{5000, "expert"},
		{2000, "expert"},
		{1999, "hard"},
		{500, "hard"},
		{499, "medium"},
		{100, "medium"},
		{99, "easy"},
		{0, "easy"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForBuyIn(tc.buyIn).Difficulty, "buy-in %d", tc.buyIn)
	}
}

func TestTierForDifficultyFallsBackToEasy(t *testing.T) {
	assert.Equal(t, "hard", tierForDifficulty("hard").Difficulty)
	assert.Equal(t, "easy", tierForDifficulty("glitched").Difficulty)
}

func TestSeedBotsCountPerTier(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 5000)

	cases := []struct {
		buyIn int64
		bots  int64
	}{
		{2000, 5},
		{500, 4},
		{100, 3},
		{0, 2},
	}
	for _, tc := range cases {
		room := createTestRoom(t, host, tc.buyIn)
		var count int64
		config.DB.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND is_bot = ?", room.ID, true).Count(&count)
		assert.Equal(t, tc.bots, count, "buy-in %d", tc.buyIn)
	}
}

func TestBotDaubWinsThroughSharedEvaluator(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 3000)
	room := createTestRoom(t, host, 2000) // expert tier: no miss chance
	round := startTestRound(t, room, host)
	handleFor(room.ID).stopTimers()

	var bot models.RoomPlayer
	require.NoError(t, config.DB.
		Where("room_id = ? AND is_bot = ?", room.ID, true).First(&bot).Error)

	// Put the bot one cell away from a top-row bingo.
	card, err := bot.GetCard()
	require.NoError(t, err)
	for col := 1; col < game.Size; col++ {
		card[0][col].Daubed = true
	}
	require.NoError(t, bot.SetCard(card))
	require.NoError(t, config.DB.Save(&bot).Error)
	winning := card[0][0].Value

	BotDaub(room.ID, bot.ID, winning, round.ID)

	require.NoError(t, config.DB.First(round, round.ID).Error)
	assert.Equal(t, game.GameFinished, round.State)
	assert.Equal(t, bot.ID, round.WinnerPlayerID)
	assert.Zero(t, round.WinnerUserID, "bots have no user account")

	require.NoError(t, config.DB.First(room, room.ID).Error)
	assert.Equal(t, game.RoomFinished, room.Status)

	require.NoError(t, config.DB.First(&bot, bot.ID).Error)
	assert.True(t, bot.ClaimedBingo)

	// The glory is free: no prize ledger entry for a bot win.
	var prizes int64
	config.DB.Model(&models.Transaction{}).Where("type = ?", models.PrizeTransaction).Count(&prizes)
	assert.Zero(t, prizes)
}

func TestBotDaubNoOpAfterRoundEnds(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 3000)
	room := createTestRoom(t, host, 2000)
	round := startTestRound(t, room, host)
	handleFor(room.ID).stopTimers()

	var bot models.RoomPlayer
	require.NoError(t, config.DB.
		Where("room_id = ? AND is_bot = ?", room.ID, true).First(&bot).Error)

	round.State = game.GameFinished
	require.NoError(t, config.DB.Save(round).Error)

	card, err := bot.GetCard()
	require.NoError(t, err)
	value := card[0][0].Value

	BotDaub(room.ID, bot.ID, value, round.ID)

	require.NoError(t, config.DB.First(&bot, bot.ID).Error)
	assert.Equal(t, 1, bot.DaubedCount, "stale bot callbacks must not touch cards")
}

func TestBotDaubIgnoresHumans(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)
	handleFor(room.ID).stopTimers()

	seat := humanSeat(t, room.ID, host.ID)
	card, err := seat.GetCard()
	require.NoError(t, err)
	value := card[0][0].Value

	BotDaub(room.ID, seat.ID, value, round.ID)

	seat = humanSeat(t, room.ID, host.ID)
	assert.Equal(t, 1, seat.DaubedCount)
}
