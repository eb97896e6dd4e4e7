package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env and validates required variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
}

// Env reads a variable with a fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
