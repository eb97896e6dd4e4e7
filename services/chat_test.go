package services

import (
	"strings"
	"testing"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostChatRequiresSeat(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	stranger := createTestUser(t, "mallory", 1000)
	room := createTestRoom(t, host, 0)

	res := PostChat(room.ID, stranger.ID, "hi there")
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "not in this room")

	require.True(t, PostChat(room.ID, host.ID, "hi there").Success)
}

func TestPostChatTrimsAndCaps(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)

	assert.False(t, PostChat(room.ID, host.ID, "   ").Success)

	long := strings.Repeat("a", 600)
	require.True(t, PostChat(room.ID, host.ID, long).Success)

	var msg models.ChatMessage
	require.NoError(t, config.DB.Where("room_id = ? AND user_id = ?", room.ID, host.ID).
		Order("id DESC").First(&msg).Error)
	assert.Len(t, msg.Body, 500)
}

func TestRecentChatOldestFirstWithSystemMessages(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)

	require.True(t, PostChat(room.ID, host.ID, "first").Success)
	require.True(t, PostChat(room.ID, host.ID, "second").Success)

	messages := RecentChat(room.ID)
	require.GreaterOrEqual(t, len(messages), 3, "room creation leaves a system message")

	// Room creation narration comes from the system sender.
	assert.Zero(t, messages[0].UserID)
	assert.Contains(t, messages[0].Body, "created the room")

	last := messages[len(messages)-1]
	assert.Equal(t, "second", last.Body)
	assert.Equal(t, host.ID, last.UserID)
}

func TestRecentChatLimit(t *testing.T) {
	setupTestDB(t)
	host := createTestUser(t, "alice", 1000)
	room := createTestRoom(t, host, 0)

	for i := 0; i < chatHistoryLimit+10; i++ {
		require.NoError(t, config.DB.Create(&models.ChatMessage{
			RoomID: room.ID, UserID: host.ID, Body: "spam",
		}).Error)
	}

	messages := RecentChat(room.ID)
	assert.Len(t, messages, chatHistoryLimit)
}
