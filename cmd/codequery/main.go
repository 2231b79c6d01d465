package main

import (
	"github.com/joho/godotenv"

	"github.com/codequery/codequery-cli/internal/adapters/driving/cli"
)

func main() {
	// Missing .env is fine; keys may come from the environment directly.
	_ = godotenv.Load()

	cli.Execute()
}
