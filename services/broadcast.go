package services

import (
	"encoding/json"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

// roomSnapshot is the full state pushed to every connected client
// after each mutation.
type roomSnapshot struct {
	Type    string             `json:"type"`
	Room    *models.Room       `json:"room"`
	Players []PlayerView       `json:"players"`
	Round   *models.GameRound  `json:"round,omitempty"`
	Called  []int              `json:"called_numbers,omitempty"`
	Battle  *models.BossBattle `json:"battle,omitempty"`
}

// broadcastRoom fans the current room state out to its clients. It
// reads the DB without the room mutex; a snapshot that races a
// mutation is simply followed by another one.
func broadcastRoom(roomID uint) {
	h := handleFor(roomID)

	var room models.Room
	if err := config.DB.First(&room, roomID).Error; err != nil {
		return
	}

	snapshot := roomSnapshot{Type: "room_state", Room: &room, Players: roster(roomID)}
	if round, err := activeRound(roomID); err == nil {
		snapshot.Round = round
		snapshot.Called = round.Called()
	}
	if battle, err := currentBattle(roomID); err == nil {
		snapshot.Battle = battle
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		logger.Errorf("marshal snapshot for room %d: %v", roomID, err)
		return
	}

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		c.trySend(payload)
	}
}

// notifyUser sends a one-off payload to a single connected user.
func notifyUser(roomID, userID uint, payload any) {
	h := handleFor(roomID)

	h.clientsMu.RLock()
	client, connected := h.clients[userID]
	h.clientsMu.RUnlock()
	if !connected {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	client.trySend(raw)
}
