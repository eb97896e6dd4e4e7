package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB gives each test an isolated in-memory database and a
// clean in-process registry, so stale timers from one test cannot
// touch the next one's rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	config.DB = db
	resetRuntime()
	t.Cleanup(resetRuntime)
	return db
}

// resetRuntime stops every scheduled callback and empties the room
// handle registry.
func resetRuntime() {
	handlesMu.Lock()
	old := handles
	handles = make(map[uint]*roomHandle)
	handlesMu.Unlock()
	for _, h := range old {
		h.stopTimers()
	}

	callTimersMu.Lock()
	for id, timer := range callTimers {
		timer.Stop()
		delete(callTimers, id)
	}
	callTimersMu.Unlock()
}

func createTestUser(t *testing.T, name string, gems int64) *models.User {
	t.Helper()
	user := &models.User{UUID: uuid.NewString(), Name: name, Gems: gems, Level: 1}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

func createTestRoom(t *testing.T, host *models.User, buyIn int64) *models.Room {
	t.Helper()
	res := CreateRoom(host.ID, CreateRoomParams{Name: "test room", BuyIn: buyIn})
	require.True(t, res.Success, res.Error)
	var room models.Room
	require.NoError(t, config.DB.First(&room, res.RoomID).Error)
	return &room
}

// startTestRound starts the room and immediately cancels the call
// timer so the test drives ticks by hand.
func startTestRound(t *testing.T, room *models.Room, starter *models.User) *models.GameRound {
	t.Helper()
	res := StartGame(room.Code, starter.ID)
	require.True(t, res.Success, res.Error)
	cancelCall(res.RoundID)

	var round models.GameRound
	require.NoError(t, config.DB.First(&round, res.RoundID).Error)
	require.NoError(t, config.DB.First(room, room.ID).Error)
	return &round
}

func humanSeat(t *testing.T, roomID, userID uint) *models.RoomPlayer {
	t.Helper()
	var seat models.RoomPlayer
	require.NoError(t, config.DB.
		Where("room_id = ? AND user_id = ? AND is_bot = ?", roomID, userID, false).
		First(&seat).Error)
	return &seat
}

// rigWinningCard daubs the seat's entire top row, which satisfies the
// line pattern as well as top_row.
func rigWinningCard(t *testing.T, seat *models.RoomPlayer) {
	t.Helper()
	card, err := seat.GetCard()
	require.NoError(t, err)
	for col := 0; col < game.Size; col++ {
		card[0][col].Daubed = true
	}
	require.NoError(t, seat.SetCard(card))
	require.NoError(t, config.DB.Save(seat).Error)
}
