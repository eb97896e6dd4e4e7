package controllers

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/services"

	"github.com/gin-gonic/gin"
)

// RoomChat returns the recent messages for a room.
func RoomChat(c *gin.Context) {
	view := services.GetRoom(c.Param("code"))
	if !view.Success {
		c.JSON(http.StatusNotFound, gin.H{"error": view.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": services.RecentChat(view.Room.ID)})
}

// PostChat appends a player message.
func PostChat(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := services.GetRoom(c.Param("code"))
	if !view.Success {
		c.JSON(http.StatusNotFound, gin.H{"error": view.Error})
		return
	}
	c.JSON(http.StatusOK, services.PostChat(view.Room.ID, middlewares.UserID(c), req.Body))
}
