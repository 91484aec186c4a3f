package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tatianab/sales-game/internal/config"
	"github.com/tatianab/sales-game/internal/engine"
	"github.com/tatianab/sales-game/internal/gemini"
	"github.com/tatianab/sales-game/internal/models"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The engine role-plays the customer.
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer client.Close()
	eng := engine.New(client, nil)

	// A second model plays the seller.
	seller, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create seller client: %v", err)
	}
	defer seller.Close()

	fmt.Println("--- Step 1: Generating a product ---")
	product, err := eng.GenerateRandomProduct(ctx)
	if err != nil {
		log.Fatalf("Failed to generate product: %v", err)
	}
	fmt.Printf("Product: %s ($%v)\n\n", product.Name, product.Price)

	fmt.Println("--- Step 2: Starting a game ---")
	session, err := eng.StartGame(ctx, product)
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	fmt.Printf("Customer: %s\n", session.Customer.Name)
	fmt.Printf("Description: %s\n", session.Customer.Description)
	fmt.Printf("Patience: %d turns\n\n", session.Customer.Patience)

	for turn := 1; session.Status == models.StatusActive; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		pitch := getSellerPitch(ctx, seller, session)
		fmt.Printf("Seller: %s\n", pitch)

		response, err := eng.ProcessPlayerMessage(ctx, session.SessionID, pitch)
		if err != nil {
			fmt.Printf("Error processing message: %v\n", err)
			break
		}
		fmt.Printf("Customer: %s\n", response.Message)
		fmt.Printf("Will buy: %v, turns remaining: %d\n\n", response.WillBuy, session.TurnsRemaining)
	}

	result, err := eng.EndGame(session.SessionID)
	if err != nil {
		log.Fatalf("Failed to end game: %v", err)
	}
	fmt.Printf("--- Result ---\n%s\n", result.FinalMessage)
	if result.Reason != "" {
		fmt.Println(result.Reason)
	}
	fmt.Printf("Money earned: $%v\n", result.MoneyEarned)
}

func getSellerPitch(ctx context.Context, seller *gemini.Client, session *models.GameSession) string {
	historyText := ""
	for _, turn := range session.ConversationHistory {
		historyText += fmt.Sprintf("%s: %s\n", turn.Speaker, turn.Message)
	}

	prompt := fmt.Sprintf(`You are a charming street seller trying to sell a product to a customer.
Product: %s
Price: $%v
Customer: %s, %s
Turns before they walk away: %d

Conversation so far:
%s

What do you say next to convince them? Be persuasive but natural. Return ONLY what you would say, no extra commentary.`,
		session.Product.Name,
		session.Product.Price,
		session.Customer.Name,
		session.Customer.Description,
		session.TurnsRemaining,
		historyText,
	)

	pitch, err := seller.Generate(ctx, prompt)
	if err != nil {
		return "This is a once in a lifetime offer, trust me!"
	}
	return strings.TrimSpace(pitch)
}
