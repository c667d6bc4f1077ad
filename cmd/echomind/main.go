// Package main is the entry point for the echomind service.
package main

import (
	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs/maxprocs"

	echomind "github.com/N1njakeks/echomind/internal/echomind"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	echomind.NewApp().Run()
}
