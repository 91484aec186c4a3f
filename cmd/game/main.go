package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatianab/sales-game/internal/config"
	"github.com/tatianab/sales-game/internal/engine"
	"github.com/tatianab/sales-game/internal/gemini"
	"github.com/tatianab/sales-game/internal/models"
	"github.com/tatianab/sales-game/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	models.SaveDir = cfg.SaveDir

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Printf("Error creating Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	eng := engine.New(client, nil)

	if err := tui.Run(eng); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
