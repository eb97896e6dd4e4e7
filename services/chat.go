package services

import (
	"strings"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

const chatHistoryLimit = 50

// systemMessage appends a system chat entry narrating a game event.
// Chat is a plain append-only sink; failures are logged, not surfaced.
func systemMessage(roomID uint, body string) {
	msg := models.ChatMessage{RoomID: roomID, UserID: 0, Body: body}
	if err := config.DB.Create(&msg).Error; err != nil {
		logger.Errorf("system message for room %d: %v", roomID, err)
	}
}

// PostChat appends a player chat message.
func PostChat(roomID, userID uint, body string) Result {
	body = strings.TrimSpace(body)
	if body == "" {
		return fail("message is empty")
	}
	if len(body) > 500 {
		body = body[:500]
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", roomID, userID, false).
		First(&seat).Error; err != nil {
		return fail("you are not in this room")
	}

	msg := models.ChatMessage{RoomID: roomID, UserID: userID, Body: body}
	if err := config.DB.Create(&msg).Error; err != nil {
		return fail("failed to send message")
	}
	broadcastRoom(roomID)
	return ok()
}

// RecentChat returns the newest messages for a room, oldest first.
func RecentChat(roomID uint) []models.ChatMessage {
	var messages []models.ChatMessage
	config.DB.Where("room_id = ?", roomID).
		Order("id DESC").Limit(chatHistoryLimit).Find(&messages)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}
