package controllers

import (
	"net/http"
	"strconv"

	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/services"

	"github.com/gin-gonic/gin"
)

func DaubNumber(c *gin.Context) {
	var req struct {
		Number int `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.DaubNumber(c.Param("code"), middlewares.UserID(c), req.Number))
}

func ClaimBingo(c *gin.Context) {
	c.JSON(http.StatusOK, services.ClaimBingo(c.Param("code"), middlewares.UserID(c)))
}

func UsePowerup(c *gin.Context) {
	var req struct {
		Type           string `json:"type" binding:"required"`
		TargetPlayerID uint   `json:"target_player_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.UsePowerup(c.Param("code"), middlewares.UserID(c), req.Type, req.TargetPlayerID))
}

// RecentPowerups serves the transient activity feed for a round.
func RecentPowerups(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usages": services.RecentPowerups(uint(roundID))})
}
