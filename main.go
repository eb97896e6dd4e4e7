package main

import (
	"log"
	"net/http"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/routes"
	"github.com/bingoroyale/bingo-royale-backend/services"
	"github.com/bingoroyale/bingo-royale-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Env("CORS_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket room endpoint
	r.GET("/ws/rooms/:code", services.HandleWebSocket)

	return r
}

func main() {
	// Load env variables
	config.LoadEnv()

	// Connect to database
	db := config.SetupDatabase()

	// Background cleanup jobs
	utils.CronCleaner(db)

	// Setup Gin router
	router := setupRouter()

	// Start server
	port := config.Env("PORT", "4000")
	log.Printf("🚀 Bingo Royale server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
