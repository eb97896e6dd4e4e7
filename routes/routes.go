package routes

import (
	"github.com/bingoroyale/bingo-royale-backend/controllers"
	"github.com/bingoroyale/bingo-royale-backend/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// Auth routes
	// ----------------------
	api.POST("/auth/register", controllers.Register)
	api.POST("/auth/login", controllers.Login)

	authed := api.Group("")
	authed.Use(middlewares.RequireAuth())

	// ----------------------
	// User routes
	// ----------------------
	authed.GET("/users/me", controllers.Me)
	authed.GET("/users/me/transactions", controllers.MyTransactions)
	authed.GET("/users/:uuid", controllers.GetUser)

	// ----------------------
	// Room routes
	// ----------------------
	authed.POST("/rooms", controllers.CreateRoom)
	authed.GET("/rooms", controllers.ListRooms)
	authed.GET("/rooms/:code", controllers.GetRoom)
	authed.POST("/rooms/:code/join", controllers.JoinRoom)
	authed.POST("/rooms/:code/leave", controllers.LeaveRoom)
	authed.POST("/rooms/:code/start", controllers.StartGame)

	// ----------------------
	// Gameplay routes
	// ----------------------
	authed.POST("/rooms/:code/daub", controllers.DaubNumber)
	authed.POST("/rooms/:code/bingo", controllers.ClaimBingo)
	authed.POST("/rooms/:code/powerup", controllers.UsePowerup)
	authed.GET("/games/:id/powerups/recent", controllers.RecentPowerups)

	// ----------------------
	// Boss battle routes
	// ----------------------
	authed.GET("/boss/tiers", controllers.BossTiers)
	authed.POST("/rooms/:code/boss/vote", controllers.VoteBoss)

	// ----------------------
	// Chat routes
	// ----------------------
	authed.GET("/rooms/:code/chat", controllers.RoomChat)
	authed.POST("/rooms/:code/chat", controllers.PostChat)
}
