package controllers

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/services"

	"github.com/gin-gonic/gin"
)

// BossTiers lists the selectable encounters.
func BossTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": services.BossTiers()})
}

// VoteBoss casts (or opens) a boss vote for a finished room.
func VoteBoss(c *gin.Context) {
	var req struct {
		Tier int `json:"tier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.VoteBoss(c.Param("code"), middlewares.UserID(c), req.Tier))
}
