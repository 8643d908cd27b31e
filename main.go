package main

import (
	"os"

	"github.com/spigell/talentscout/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env file for local development (API keys, database DSN).
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
