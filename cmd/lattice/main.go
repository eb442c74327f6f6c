package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local defaults (e.g. LATTICE_STEP_LIMIT).
	_ = godotenv.Load()

	Execute()
}
