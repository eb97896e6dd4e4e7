package services

import (
	"math/rand"
	"strings"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"gorm.io/gorm"
)

const (
	// roomCodeAlphabet drops the ambiguous I, O, 0 and 1.
	roomCodeAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength    = 6
	defaultMaxPlayers = 8
	listRoomsLimit    = 20
)

type CreateRoomParams struct {
	Name       string    `json:"name"`
	Mode       game.Mode `json:"mode"`
	MaxPlayers int       `json:"max_players"`
	BuyIn      int64     `json:"buy_in"`
	Private    bool      `json:"private"`
	Password   string    `json:"password"`
}

type CreateRoomResult struct {
	Result
	RoomID uint   `json:"room_id,omitempty"`
	Code   string `json:"code,omitempty"`
}

type JoinRoomResult struct {
	Result
	RoomID uint   `json:"room_id,omitempty"`
	Code   string `json:"code,omitempty"`
}

// generateRoomCode draws 6 characters from the restricted alphabet.
func generateRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

// uniqueRoomCode retries generation until no live room collides.
func uniqueRoomCode(db *gorm.DB) string {
	for {
		code := generateRoomCode()
		var count int64
		db.Model(&models.Room{}).Where("code = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
}

// findRoom resolves a room by code, case-insensitively. Codes are
// stored uppercase.
func findRoom(code string) (*models.Room, error) {
	var room models.Room
	err := config.DB.Where("code = ?", strings.ToUpper(code)).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom makes a coded lobby, charges the host the buy-in up front
// and seeds the prize pool and the bot roster.
func CreateRoom(hostID uint, p CreateRoomParams) CreateRoomResult {
	if strings.TrimSpace(p.Name) == "" {
		return CreateRoomResult{Result: fail("room name is required")}
	}
	if p.Mode == "" {
		p.Mode = game.ModeClassic
	}
	if !p.Mode.Valid() {
		return CreateRoomResult{Result: fail("unknown game mode %q", p.Mode)}
	}
	if p.MaxPlayers == 0 {
		p.MaxPlayers = defaultMaxPlayers
	}
	if p.MaxPlayers < 2 || p.MaxPlayers > 12 {
		return CreateRoomResult{Result: fail("max players must be between 2 and 12")}
	}
	if p.BuyIn < 0 {
		return CreateRoomResult{Result: fail("buy-in cannot be negative")}
	}
	if p.Private && p.Password == "" {
		return CreateRoomResult{Result: fail("private rooms need a password")}
	}

	var host models.User
	if err := config.DB.First(&host, hostID).Error; err != nil {
		return CreateRoomResult{Result: fail("user not found")}
	}

	room := models.Room{
		Code:       uniqueRoomCode(config.DB),
		Name:       strings.TrimSpace(p.Name),
		HostID:     hostID,
		Status:     game.RoomWaiting,
		Mode:       p.Mode,
		MaxPlayers: p.MaxPlayers,
		BuyIn:      p.BuyIn,
		PrizePool:  p.BuyIn,
		Private:    p.Private,
		Password:   p.Password,
	}

	// Buy-in, room and host seat land together or not at all.
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := DebitGems(tx, hostID, p.BuyIn, models.BuyInTransaction); err != nil {
			return err
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		seat := models.RoomPlayer{RoomID: room.ID, UserID: hostID, JoinedAt: time.Now()}
		if err := seat.SetCard(game.NewCard()); err != nil {
			return err
		}
		seat.DistanceToWin = game.Size - 1
		return tx.Create(&seat).Error
	})
	if err == ErrInsufficientGems {
		return CreateRoomResult{Result: fail("you cannot afford the %d gem buy-in", p.BuyIn)}
	}
	if err != nil {
		return CreateRoomResult{Result: fail("failed to create room")}
	}

	seedBots(room.ID, p.BuyIn)
	systemMessage(room.ID, host.Name+" created the room")
	logger.Infof("room %s created by user %d (mode=%s buyIn=%d)", room.Code, hostID, room.Mode, room.BuyIn)

	return CreateRoomResult{Result: ok(), RoomID: room.ID, Code: room.Code}
}

// JoinRoom seats a user in a room by code. Joining a room you are
// already in succeeds without side effects. Joining mid-game daubs the
// new card up to the called numbers so late joiners are not behind.
func JoinRoom(code string, userID uint, password string) JoinRoomResult {
	room, err := findRoom(code)
	if err != nil {
		return JoinRoomResult{Result: fail("room not found")}
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	// Re-read under the lock: another join/leave may have raced us.
	if err := config.DB.First(room, room.ID).Error; err != nil {
		return JoinRoomResult{Result: fail("room not found")}
	}

	var existing models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&existing).Error; err == nil {
		return JoinRoomResult{Result: ok(), RoomID: room.ID, Code: room.Code}
	}

	if room.Status == game.RoomFinished {
		return JoinRoomResult{Result: fail("this room has already finished")}
	}
	if room.Private && room.Password != password {
		return JoinRoomResult{Result: fail("wrong password")}
	}

	// Bots do not take up human seats.
	var seated int64
	config.DB.Model(&models.RoomPlayer{}).
		Where("room_id = ? AND is_bot = ?", room.ID, false).Count(&seated)
	if seated >= int64(room.MaxPlayers) {
		return JoinRoomResult{Result: fail("room is full")}
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return JoinRoomResult{Result: fail("user not found")}
	}

	card := game.NewCard()
	seat := models.RoomPlayer{RoomID: room.ID, UserID: userID, JoinedAt: time.Now()}
	seat.DistanceToWin = game.Size - 1

	// Catch a late joiner up on everything already called this round.
	if room.Status == game.RoomPlaying {
		if round, err := activeRound(room.ID); err == nil {
			for _, n := range round.Called() {
				card.Daub(n)
			}
			seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
		}
	}
	if err := seat.SetCard(card); err != nil {
		return JoinRoomResult{Result: fail("failed to generate card")}
	}

	// Buy-in, pool bump and seat land together or not at all.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := DebitGems(tx, userID, room.BuyIn, models.BuyInTransaction); err != nil {
			return err
		}
		room.PrizePool += room.BuyIn
		if err := tx.Save(room).Error; err != nil {
			return err
		}
		return tx.Create(&seat).Error
	})
	if err == ErrInsufficientGems {
		return JoinRoomResult{Result: fail("you cannot afford the %d gem buy-in", room.BuyIn)}
	}
	if err != nil {
		return JoinRoomResult{Result: fail("failed to join room")}
	}

	systemMessage(room.ID, user.Name+" joined the room")
	go broadcastRoom(room.ID)
	return JoinRoomResult{Result: ok(), RoomID: room.ID, Code: room.Code}
}

// LeaveRoom removes the user's seat. When the last human leaves the
// room is destroyed entirely, bots included.
func LeaveRoom(code string, userID uint) Result {
	room, err := findRoom(code)
	if err != nil {
		return fail("room not found")
	}

	h := handleFor(room.ID)
	h.mu.Lock()

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		h.mu.Unlock()
		return fail("you are not in this room")
	}
	config.DB.Delete(&seat)

	var humansLeft int64
	config.DB.Model(&models.RoomPlayer{}).
		Where("room_id = ? AND is_bot = ?", room.ID, false).Count(&humansLeft)

	if humansLeft == 0 {
		if round, err := activeRound(room.ID); err == nil {
			cancelCall(round.ID)
		}
		config.DB.Where("room_id = ?", room.ID).Delete(&models.RoomPlayer{})
		config.DB.Where("room_id = ?", room.ID).Delete(&models.ChatMessage{})
		config.DB.Delete(&models.Room{}, room.ID)
		h.mu.Unlock()
		dropHandle(room.ID)
		logger.Infof("room %s destroyed (last player left)", room.Code)
		return ok()
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err == nil {
		systemMessage(room.ID, user.Name+" left the room")
	}
	h.mu.Unlock()
	broadcastRoom(room.ID)
	return ok()
}

// RoomSummary is one row of the public room list.
type RoomSummary struct {
	ID          uint            `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Status      game.RoomStatus `json:"status"`
	Mode        game.Mode       `json:"mode"`
	MaxPlayers  int             `json:"max_players"`
	BuyIn       int64           `json:"buy_in"`
	PrizePool   int64           `json:"prize_pool"`
	PlayerCount int64           `json:"player_count"`
	HostName    string          `json:"host_name"`
}

// ListRooms returns up to 20 public, joinable rooms with live player
// counts and host names.
func ListRooms() []RoomSummary {
	var rooms []models.Room
	config.DB.
		Where("private = ? AND status IN ?", false, []game.RoomStatus{game.RoomWaiting, game.RoomPlaying}).
		Order("created_at DESC").Limit(listRoomsLimit).Find(&rooms)

	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		var count int64
		config.DB.Model(&models.RoomPlayer{}).Where("room_id = ?", room.ID).Count(&count)

		var host models.User
		hostName := "unknown"
		if err := config.DB.First(&host, room.HostID).Error; err == nil {
			hostName = host.Name
		}

		out = append(out, RoomSummary{
			ID:          room.ID,
			Code:        room.Code,
			Name:        room.Name,
			Status:      room.Status,
			Mode:        room.Mode,
			MaxPlayers:  room.MaxPlayers,
			BuyIn:       room.BuyIn,
			PrizePool:   room.PrizePool,
			PlayerCount: count,
			HostName:    hostName,
		})
	}
	return out
}

// PlayerView is one roster entry with display enrichment.
type PlayerView struct {
	PlayerID      uint       `json:"player_id"`
	UserID        uint       `json:"user_id,omitempty"`
	Name          string     `json:"name"`
	Avatar        string     `json:"avatar"`
	IsBot         bool       `json:"is_bot"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Card          any        `json:"card"`
	DaubedCount   int        `json:"daubed_count"`
	DistanceToWin int        `json:"distance_to_win"`
	ClaimedBingo  bool       `json:"claimed_bingo"`
	FrozenUntil   *time.Time `json:"frozen_until,omitempty"`
	ShieldUntil   *time.Time `json:"shield_until,omitempty"`
}

type RoomView struct {
	Result
	Room    *models.Room       `json:"room,omitempty"`
	Players []PlayerView       `json:"players,omitempty"`
	Round   *models.GameRound  `json:"round,omitempty"`
	Called  []int              `json:"called_numbers,omitempty"`
	Battle  *models.BossBattle `json:"battle,omitempty"`
}

// GetRoom returns the full room plus an enriched roster.
func GetRoom(code string) RoomView {
	room, err := findRoom(code)
	if err != nil {
		return RoomView{Result: fail("room not found")}
	}

	view := RoomView{Result: ok(), Room: room, Players: roster(room.ID)}
	if round, err := activeRound(room.ID); err == nil {
		view.Round = round
		view.Called = round.Called()
	}
	if battle, err := currentBattle(room.ID); err == nil {
		view.Battle = battle
	}
	return view
}

// roster builds the enriched player list for a room.
func roster(roomID uint) []PlayerView {
	var seats []models.RoomPlayer
	config.DB.Where("room_id = ?", roomID).Order("joined_at ASC").Find(&seats)

	out := make([]PlayerView, 0, len(seats))
	for _, seat := range seats {
		view := PlayerView{
			PlayerID:      seat.ID,
			UserID:        seat.UserID,
			IsBot:         seat.IsBot,
			Difficulty:    seat.BotDifficulty,
			DaubedCount:   seat.DaubedCount,
			DistanceToWin: seat.DistanceToWin,
			ClaimedBingo:  seat.ClaimedBingo,
			FrozenUntil:   seat.FrozenUntil,
			ShieldUntil:   seat.ShieldUntil,
		}
		if card, err := seat.GetCard(); err == nil {
			view.Card = card
		}
		if seat.IsBot {
			view.Name = seat.BotName
			view.Avatar = seat.BotAvatar
		} else {
			var user models.User
			if err := config.DB.First(&user, seat.UserID).Error; err == nil {
				view.Name = user.Name
				view.Avatar = user.Avatar
			} else {
				view.Name = "unknown"
			}
		}
		out = append(out, view)
	}
	return out
}

// activeRound finds the room's in-flight round.
func activeRound(roomID uint) (*models.GameRound, error) {
	var round models.GameRound
	err := config.DB.Where("room_id = ? AND state = ?", roomID, game.GameActive).
		Order("id DESC").First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}
