package services

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket attaches an authenticated, seated user to a room's
// broadcast group. Joining happens over REST first; the socket is for
// live play only.
func HandleWebSocket(c *gin.Context) {
	room, err := findRoom(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	userID, err := middlewares.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "join the room before connecting"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("ws upgrade: %v", err)
		return
	}

	client := &Client{
		userID:   userID,
		roomID:   room.ID,
		roomCode: room.Code,
		conn:     conn,
		send:     make(chan []byte, 32),
	}

	handleFor(room.ID).addClient(client)
}
