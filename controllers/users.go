package controllers

import (
	"net/http"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/middlewares"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Me returns the authenticated user.
func Me(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, middlewares.UserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser fetches a public profile by UUID.
func GetUser(c *gin.Context) {
	var user models.User
	if err := config.DB.Where("uuid = ?", c.Param("uuid")).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// MyTransactions lists the authenticated user's gem ledger.
func MyTransactions(c *gin.Context) {
	var txs []models.Transaction
	config.DB.Where("user_id = ?", middlewares.UserID(c)).
		Order("id DESC").Limit(50).Find(&txs)
	c.JSON(http.StatusOK, txs)
}
