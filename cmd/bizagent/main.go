package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/tillberg/autorestart"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/cli"
)

func main() {
	// credentials commonly live in a local .env during development
	_ = godotenv.Load()

	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
