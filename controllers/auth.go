package controllers

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// startingGems is the welcome grant for new accounts.
const startingGems = 1000

// Register creates a user and returns a bearer token. The generated
// UUID doubles as the login credential for this casual game.
func Register(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "name already taken"})
		return
	}

	user := models.User{
		UUID:   uuid.NewString(),
		Name:   req.Name,
		Avatar: req.Avatar,
		Gems:   startingGems,
		Level:  1,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	config.DB.Create(&models.Transaction{
		UserID:       user.ID,
		Type:         models.GrantTransaction,
		Amount:       startingGems,
		BalanceAfter: startingGems,
	})

	token, err := middlewares.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login re-issues a token for an existing UUID.
func Login(c *gin.Context) {
	var req struct {
		UUID string `json:"uuid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("uuid = ?", req.UUID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	token, err := middlewares.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
