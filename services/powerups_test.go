package services

import (
	"testing"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsePowerupUnknownType(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "nuke", 0)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown power-up")
}

func TestUsePowerupNeedsActiveGame(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)

	res := UsePowerup(room.Code, host.ID, "quickdaub", 0)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "ended")
}

func TestQuickdaubDaubsOneCellAndCharges(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "quickdaub", 0)
	require.True(t, res.Success, res.Error)

	seat := humanSeat(t, room.ID, host.ID)
	assert.Equal(t, 2, seat.DaubedCount)

	card, err := seat.GetCard()
	require.NoError(t, err)
	assert.Equal(t, game.DistanceToWin(&card, round.Pattern), seat.DistanceToWin)

	require.NoError(t, config.DB.First(host, host.ID).Error)
	assert.Equal(t, int64(970), host.Gems)

	var usage models.PowerupUsage
	require.NoError(t, config.DB.Where("game_round_id = ? AND user_id = ? AND type = ?",
		round.ID, host.ID, "quickdaub").First(&usage).Error)
}

func TestWildDaubsTwoCells(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	require.True(t, UsePowerup(room.Code, host.ID, "wild", 0).Success)

	seat := humanSeat(t, room.ID, host.ID)
	assert.Equal(t, 3, seat.DaubedCount)
}

func TestPeekRevealsUpcomingNumber(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "peek", 0)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, round.NextNumber, res.PeekedNumber)
}

func TestPowerupCooldownPerRoundUserType(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)

	require.True(t, UsePowerup(room.Code, host.ID, "peek", 0).Success)

	res := UsePowerup(room.Code, host.ID, "peek", 0)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "cooldown")

	// A different type is on its own cooldown track.
	require.True(t, UsePowerup(room.Code, host.ID, "quickdaub", 0).Success)

	// Backdate the peek usage past the window and it works again.
	require.NoError(t, config.DB.Model(&models.PowerupUsage{}).
		Where("game_round_id = ? AND user_id = ? AND type = ?", round.ID, host.ID, "peek").
		Update("created_at", time.Now().Add(-PowerupCooldown-time.Second)).Error)
	require.True(t, UsePowerup(room.Code, host.ID, "peek", 0).Success)
}

func TestPowerupInsufficientGems(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "broke", 5)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "peek", 0)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "you need 20 gems")

	require.NoError(t, config.DB.First(host, host.ID).Error)
	assert.Equal(t, int64(5), host.Gems)
}

func TestFreezeNeedsTarget(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "freeze", 0)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "needs a target")
}

func TestFreezeSetsFrozenUntil(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	bob := createTestUser(t, "bob", 1000)
	room := createTestRoom(t, host, 0)
	require.True(t, JoinRoom(room.Code, bob.ID, "").Success)
	startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "freeze", humanSeat(t, room.ID, bob.ID).ID)
	require.True(t, res.Success, res.Error)

	seat := humanSeat(t, room.ID, bob.ID)
	require.NotNil(t, seat.FrozenUntil)
	assert.True(t, seat.Frozen(time.Now()))
	assert.False(t, seat.Frozen(time.Now().Add(freezeDuration+time.Second)))
}

func TestShieldBlocksAttackButStillCharges(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	bob := createTestUser(t, "bob", 1000)
	room := createTestRoom(t, host, 0)
	require.True(t, JoinRoom(room.Code, bob.ID, "").Success)
	startTestRound(t, room, host)

	require.True(t, UsePowerup(room.Code, bob.ID, "shield", 0).Success)
	require.NoError(t, config.DB.First(bob, bob.ID).Error)
	assert.Equal(t, int64(930), bob.Gems)

	res := UsePowerup(room.Code, host.ID, "freeze", humanSeat(t, room.ID, bob.ID).ID)
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Description, "blocked")

	seat := humanSeat(t, room.ID, bob.ID)
	assert.Nil(t, seat.FrozenUntil, "shield must block the freeze")

	// The attacker is charged either way.
	require.NoError(t, config.DB.First(host, host.ID).Error)
	assert.Equal(t, int64(940), host.Gems)
}

func TestUndaubRemovesOneDaub(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	bob := createTestUser(t, "bob", 1000)
	room := createTestRoom(t, host, 0)
	require.True(t, JoinRoom(room.Code, bob.ID, "").Success)
	startTestRound(t, room, host)

	seat := humanSeat(t, room.ID, bob.ID)
	card, err := seat.GetCard()
	require.NoError(t, err)
	card[1][1].Daubed = true
	card[3][4].Daubed = true
	require.NoError(t, seat.SetCard(card))
	require.NoError(t, config.DB.Save(seat).Error)

	require.True(t, UsePowerup(room.Code, host.ID, "undaub", seat.ID).Success)

	seat = humanSeat(t, room.ID, bob.ID)
	assert.Equal(t, 2, seat.DaubedCount, "one daub removed, free center untouched")
	card, err = seat.GetCard()
	require.NoError(t, err)
	assert.True(t, card.IsDaubed(game.Size/2, game.Size/2))
}

func TestShuffleScramblesUndaubedOnly(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	bob := createTestUser(t, "bob", 1000)
	room := createTestRoom(t, host, 0)
	require.True(t, JoinRoom(room.Code, bob.ID, "").Success)
	round := startTestRound(t, room, host)

	seat := humanSeat(t, room.ID, bob.ID)
	before, err := seat.GetCard()
	require.NoError(t, err)
	before[0][0].Daubed = true
	before[4][4].Daubed = true
	require.NoError(t, seat.SetCard(before))
	require.NoError(t, config.DB.Save(seat).Error)

	require.True(t, UsePowerup(room.Code, host.ID, "shuffle", seat.ID).Success)

	seat = humanSeat(t, room.ID, bob.ID)
	after, err := seat.GetCard()
	require.NoError(t, err)

	// Daubed cells keep their values.
	assert.Equal(t, before[0][0].Value, after[0][0].Value)
	assert.Equal(t, before[4][4].Value, after[4][4].Value)
	assert.True(t, after[0][0].Daubed)
	assert.True(t, after[4][4].Daubed)

	// Column ranges and distinctness still hold.
	for col := 0; col < game.Size; col++ {
		seen := map[int]bool{}
		for row := 0; row < game.Size; row++ {
			if row == game.Size/2 && col == game.Size/2 {
				continue
			}
			v := after[row][col].Value
			assert.GreaterOrEqual(t, v, col*game.ColumnRange+1)
			assert.LessOrEqual(t, v, (col+1)*game.ColumnRange)
			assert.False(t, seen[v], "duplicate %d in column %d", v, col)
			seen[v] = true
		}
	}
	assert.Equal(t, game.DistanceToWin(&after, round.Pattern), seat.DistanceToWin)
}

func TestFreezeTargetsBotAndStopsItsDaubs(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)
	handleFor(room.ID).stopTimers()

	var bot models.RoomPlayer
	require.NoError(t, config.DB.
		Where("room_id = ? AND is_bot = ?", room.ID, true).First(&bot).Error)

	res := UsePowerup(room.Code, host.ID, "freeze", bot.ID)
	require.True(t, res.Success, res.Error)

	require.NoError(t, config.DB.First(&bot, bot.ID).Error)
	require.NotNil(t, bot.FrozenUntil)
	assert.True(t, bot.Frozen(time.Now()))

	// A frozen bot sits out its reaction callback entirely.
	card, err := bot.GetCard()
	require.NoError(t, err)
	BotDaub(room.ID, bot.ID, card[0][0].Value, round.ID)

	require.NoError(t, config.DB.First(&bot, bot.ID).Error)
	assert.Equal(t, 1, bot.DaubedCount)
}

func TestShuffleTargetsBot(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	var bot models.RoomPlayer
	require.NoError(t, config.DB.
		Where("room_id = ? AND is_bot = ?", room.ID, true).First(&bot).Error)

	res := UsePowerup(room.Code, host.ID, "shuffle", bot.ID)
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Description, bot.BotName)
}

func TestTargetedPowerupRejectsUnknownSeat(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	startTestRound(t, room, host)

	res := UsePowerup(room.Code, host.ID, "freeze", 9999)
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "target is not in this room")
}

func TestRecentPowerupsWindow(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)
	round := startTestRound(t, room, host)

	require.True(t, UsePowerup(room.Code, host.ID, "peek", 0).Success)
	require.Len(t, RecentPowerups(round.ID), 1)

	require.NoError(t, config.DB.Model(&models.PowerupUsage{}).
		Where("game_round_id = ?", round.ID).
		Update("created_at", time.Now().Add(-time.Minute)).Error)
	assert.Empty(t, RecentPowerups(round.ID))
}
