package services

import (
	"encoding/json"
	"sync"

	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection bound to a user and a room.
type Client struct {
	userID   uint
	roomID   uint
	roomCode string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// trySend drops the message instead of blocking a slow consumer.
func (c *Client) trySend(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warnf("send to closed client %d: %v", c.userID, r)
		}
	}()
	select {
	case c.send <- payload:
	default:
		logger.Warnf("dropping message to user %d in room %d", c.userID, c.roomID)
	}
}

// clientAction is the inbound message envelope.
type clientAction struct {
	Action         string `json:"action"`
	Number         int    `json:"number,omitempty"`
	Type           string `json:"type,omitempty"`
	TargetPlayerID uint   `json:"target_player_id,omitempty"`
	Tier           int    `json:"tier,omitempty"`
	Body           string `json:"body,omitempty"`
}

func (c *Client) readPump() {
	defer func() {
		h := handleFor(c.roomID)
		h.removeClient(c.userID)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("client %d disconnected", c.userID)
			} else {
				logger.Warnf("client %d read error: %v", c.userID, err)
			}
			return
		}

		func(msg []byte) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("client %d action panic: %v", c.userID, r)
				}
			}()

			var action clientAction
			if err := json.Unmarshal(msg, &action); err != nil {
				logger.Warnf("client %d sent invalid message: %v", c.userID, err)
				return
			}
			c.dispatch(action)
		}(message)
	}
}

// dispatch routes an inbound action to the engine and sends the result
// back to the acting client only.
func (c *Client) dispatch(action clientAction) {
	var result any
	switch action.Action {
	case "daub":
		result = DaubNumber(c.roomCode, c.userID, action.Number)
	case "bingo":
		result = ClaimBingo(c.roomCode, c.userID)
	case "powerup":
		result = UsePowerup(c.roomCode, c.userID, action.Type, action.TargetPlayerID)
	case "boss_vote":
		result = VoteBoss(c.roomCode, c.userID, action.Tier)
	case "chat":
		result = PostChat(c.roomID, c.userID, action.Body)
	default:
		logger.Warnf("client %d unknown action %q", c.userID, action.Action)
		return
	}

	notifyUser(c.roomID, c.userID, map[string]any{
		"type":   "result",
		"action": action.Action,
		"result": result,
	})
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warnf("client %d write error: %v", c.userID, err)
			return
		}
	}
}

// addClient registers a connection, replacing any previous one for the
// same user, and pushes a fresh snapshot.
func (h *roomHandle) addClient(c *Client) {
	h.clientsMu.Lock()
	if old, connected := h.clients[c.userID]; connected {
		old.Close()
	}
	h.clients[c.userID] = c
	h.clientsMu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Infof("user %d connected to room %d", c.userID, c.roomID)
	go broadcastRoom(c.roomID)
}

func (h *roomHandle) removeClient(userID uint) {
	h.clientsMu.Lock()
	if client, connected := h.clients[userID]; connected {
		delete(h.clients, userID)
		client.Close()
	}
	h.clientsMu.Unlock()
}
