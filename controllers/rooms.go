package controllers

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/services"

	"github.com/gin-gonic/gin"
)

// Gameplay mutations always answer 200; the embedded success/error
// fields carry the outcome.

func CreateRoom(c *gin.Context) {
	var params services.CreateRoomParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.CreateRoom(middlewares.UserID(c), params))
}

func ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": services.ListRooms()})
}

func GetRoom(c *gin.Context) {
	c.JSON(http.StatusOK, services.GetRoom(c.Param("code")))
}

func JoinRoom(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	_ = c.ShouldBindJSON(&req)
	c.JSON(http.StatusOK, services.JoinRoom(c.Param("code"), middlewares.UserID(c), req.Password))
}

func LeaveRoom(c *gin.Context) {
	c.JSON(http.StatusOK, services.LeaveRoom(c.Param("code"), middlewares.UserID(c)))
}

func StartGame(c *gin.Context) {
	c.JSON(http.StatusOK, services.StartGame(c.Param("code"), middlewares.UserID(c)))
}
