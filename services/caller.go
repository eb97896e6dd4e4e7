package services

import (
	"math/rand"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"gorm.io/datatypes"
)

type StartGameResult struct {
	Result
	RoundID uint         `json:"round_id,omitempty"`
	Pattern game.Pattern `json:"pattern,omitempty"`
}

// StartGame transitions a room to playing and schedules the first
// number call. Starting a finished room replays it: every seat gets a
// fresh card and cleared flags.
func StartGame(code string, userID uint) StartGameResult {
	room, err := findRoom(code)
	if err != nil {
		return StartGameResult{Result: fail("room not found")}
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := config.DB.First(room, room.ID).Error; err != nil {
		return StartGameResult{Result: fail("room not found")}
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		return StartGameResult{Result: fail("you are not in this room")}
	}

	round, res := startRoundLocked(room)
	if !res.Success {
		return StartGameResult{Result: res}
	}

	go broadcastRoom(room.ID)
	return StartGameResult{Result: ok(), RoundID: round.ID, Pattern: round.Pattern}
}

// startRoundLocked does the actual start; the caller must hold the
// room mutex. Shared with boss-battle activation.
func startRoundLocked(room *models.Room) (*models.GameRound, Result) {
	if !room.Status.CanTransition(game.RoomPlaying) {
		return nil, fail("the room cannot start a game right now")
	}

	// Replay after a finished round: fresh cards, cleared flags.
	var seats []models.RoomPlayer
	config.DB.Where("room_id = ?", room.ID).Find(&seats)
	for i := range seats {
		seat := &seats[i]
		if err := seat.SetCard(game.NewCard()); err != nil {
			return nil, fail("failed to deal cards")
		}
		seat.DistanceToWin = game.Size - 1
		seat.ClaimedBingo = false
		seat.FrozenUntil = nil
		seat.ShieldUntil = nil
		seat.ScrambledAt = nil
		config.DB.Save(seat)
	}

	interval := room.Mode.CallInterval()
	round := models.GameRound{
		RoomID:        room.ID,
		State:         game.GameActive,
		Pattern:       room.Mode.PickPattern(),
		NextNumber:    rand.Intn(game.MaxNumber) + 1,
		CalledNumbers: datatypes.JSON([]byte("[]")),
		StartedAt:     time.Now(),
		NextCallAt:    time.Now().Add(interval),
	}
	if err := config.DB.Create(&round).Error; err != nil {
		return nil, fail("failed to start the game")
	}

	room.Status = game.RoomPlaying
	config.DB.Save(room)

	systemMessage(room.ID, "A new round has started! Pattern: "+string(round.Pattern))
	logger.Infof("room %s round %d started (pattern=%s interval=%s)", room.Code, round.ID, round.Pattern, interval)

	scheduleCall(round.ID, room.ID, interval)
	return &round, ok()
}

// callNext is the recurring number-call tick. It may fire after the
// round already ended; every terminal condition is treated as a silent
// no-op since cancellation is best-effort.
func callNext(roomID, roundID uint) {
	h := handleFor(roomID)
	h.mu.Lock()

	var round models.GameRound
	if err := config.DB.First(&round, roundID).Error; err != nil {
		h.mu.Unlock()
		return
	}
	if round.Over() {
		h.mu.Unlock()
		return
	}

	var room models.Room
	if err := config.DB.First(&room, roomID).Error; err != nil || room.Status != game.RoomPlaying {
		h.mu.Unlock()
		return
	}

	called := round.Called()
	if len(called) >= game.MaxNumber {
		h.mu.Unlock()
		return
	}

	calledSet := make(map[int]bool, len(called))
	for _, n := range called {
		calledSet[n] = true
	}

	// Promote the pre-selected number, regenerating if it is somehow
	// missing or already called.
	current := round.NextNumber
	if current == 0 || calledSet[current] {
		current = randomRemaining(calledSet)
	}
	if current == 0 {
		h.mu.Unlock()
		return
	}
	calledSet[current] = true
	called = append(called, current)

	round.CurrentNumber = current
	round.NextNumber = randomRemaining(calledSet)
	round.SetCalled(called)
	round.NextCallAt = time.Now().Add(room.Mode.CallInterval())
	config.DB.Save(&round)

	// Sweep: auto-daub every non-frozen human; bots react on their own
	// delayed callbacks instead.
	now := time.Now()
	var seats []models.RoomPlayer
	config.DB.Where("room_id = ?", roomID).Find(&seats)
	for i := range seats {
		seat := &seats[i]
		if seat.IsBot {
			tier := tierForDifficulty(seat.BotDifficulty)
			playerID := seat.ID
			number := current
			h.addTimer(time.AfterFunc(tier.Delay, func() {
				BotDaub(roomID, playerID, number, roundID)
			}))
			continue
		}
		if seat.Frozen(now) {
			continue
		}
		card, err := seat.GetCard()
		if err != nil {
			continue
		}
		if card.Daub(current) {
			if err := seat.SetCard(card); err != nil {
				continue
			}
			seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
			config.DB.Save(seat)
		}
	}
	h.mu.Unlock()

	broadcastRoom(roomID)

	if len(called) < game.MaxNumber {
		scheduleCall(roundID, roomID, room.Mode.CallInterval())
	} else {
		cancelCall(roundID)
	}
}

// randomRemaining picks uniformly from the undrawn pool, or 0 when it
// is exhausted.
func randomRemaining(calledSet map[int]bool) int {
	remaining := make([]int, 0, game.MaxNumber-len(calledSet))
	for n := 1; n <= game.MaxNumber; n++ {
		if !calledSet[n] {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == 0 {
		return 0
	}
	return remaining[rand.Intn(len(remaining))]
}
