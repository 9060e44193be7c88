package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/salmonumbrella/formkit/internal/cmd"
)

func main() {
	// A .env in the working directory supplies FORMKIT_* defaults; real
	// environment variables win.
	_ = godotenv.Load()

	if err := cmd.Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
