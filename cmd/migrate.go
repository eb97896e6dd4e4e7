package main

import (
	"log"

	"github.com/bingoroyale/bingo-royale-backend/config"
)

func main() {
	config.LoadEnv()
	db := config.SetupDatabase() // connects + migrates
	_ = db
	log.Println("✅ Database migration completed successfully")
}
