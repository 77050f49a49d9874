package main

import (
	"log"

	"github.com/you/scaletrack/internal/app"
	"github.com/you/scaletrack/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
