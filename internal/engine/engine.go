// Package engine owns the negotiation game: persona generation, turn
// resolution, settlement, and the session store behind them.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/sales-game/internal/gemini"
	"github.com/tatianab/sales-game/internal/models"
)

//go:embed prompts/random_product.txt
var randomProductPrompt string

//go:embed prompts/generate_customer.txt
var generateCustomerPrompt string

//go:embed prompts/customer_reply.txt
var customerReplyPrompt string

// Generator is the slice of the generation provider the engine needs.
// *gemini.Client satisfies it; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStructured(ctx context.Context, prompt string, shape gemini.Shape) (string, error)
}

// Engine runs game sessions. Turn processing and settlement for a given
// session id are serialized by a per-session mutex, held across the provider
// call so a turn is atomic; different sessions never contend.
type Engine struct {
	gen   Generator
	store SessionStore
	locks sync.Map // session id -> *sync.Mutex

	newID func() string
	now   func() time.Time
}

func New(gen Generator, store SessionStore) *Engine {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Engine{
		gen:   gen,
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// GenerateRandomProduct asks the provider for a quirky product to sell.
func (e *Engine) GenerateRandomProduct(ctx context.Context) (models.Product, error) {
	shape := gemini.Shape{Fields: []gemini.Field{
		{
			Name:        "name",
			Type:        gemini.FieldString,
			Description: "Product name (keep it concise)",
			Examples:    []string{"Unlosable socks", "A pen that writes in three colors at once", "Wired iron man suit", "Longganisa"},
		},
		{
			Name:        "price",
			Type:        gemini.FieldNumber,
			Description: "Price in dollars",
		},
	}}

	raw, err := e.gen.GenerateStructured(ctx, randomProductPrompt, shape)
	if err != nil {
		return models.Product{}, err
	}
	return decodeProduct(raw)
}

// GenerateCustomer asks the provider for a customer persona.
func (e *Engine) GenerateCustomer(ctx context.Context) (models.Customer, error) {
	shape := gemini.Shape{Fields: []gemini.Field{
		{
			Name:     "name",
			Type:     gemini.FieldString,
			Examples: []string{"Xi Ai Dol", "Al Beback", "Boi Men"},
		},
		{
			Name:        "description",
			Type:        gemini.FieldString,
			Description: "Brief character description, 1-3 sentences long only",
			Examples: []string{
				"A tech-savvy young professional who loves gadgets and outdoor activities",
				"An Instagram influencer who posts reels about fashion and lifestyle",
			},
		},
		{
			Name:        "patience",
			Type:        gemini.FieldInteger,
			Description: "Conversation turns before they leave",
			Minimum:     f64(minPatience),
			Maximum:     f64(maxPatience),
		},
	}}

	raw, err := e.gen.GenerateStructured(ctx, generateCustomerPrompt, shape)
	if err != nil {
		return models.Customer{}, err
	}
	return decodeCustomer(raw)
}

// StartGame generates a customer for the product and opens a session. No
// session is stored if customer generation fails.
func (e *Engine) StartGame(ctx context.Context, product models.Product) (*models.GameSession, error) {
	customer, err := e.GenerateCustomer(ctx)
	if err != nil {
		return nil, err
	}

	session := &models.GameSession{
		SessionID:           e.newID(),
		Product:             product,
		Customer:            customer,
		ConversationHistory: []models.ConversationTurn{},
		TurnsRemaining:      customer.Patience,
		PlayerMoney:         0,
		Status:              models.StatusActive,
	}

	e.store.Put(session)
	return session, nil
}

// ProcessPlayerMessage appends the player's message, has the provider
// role-play the customer's reply, and settles the turn. On a generation
// failure the player's turn is rolled back so the history never holds an
// unanswered message.
func (e *Engine) ProcessPlayerMessage(ctx context.Context, sessionID, message string) (models.CustomerResponse, error) {
	mu := e.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, ok := e.store.Get(sessionID)
	if !ok {
		return models.CustomerResponse{}, ErrSessionNotFound
	}
	if session.Ended() {
		return models.CustomerResponse{}, ErrSessionEnded
	}

	session.ConversationHistory = append(session.ConversationHistory, models.ConversationTurn{
		Speaker:   models.SpeakerPlayer,
		Message:   message,
		Timestamp: e.now(),
	})

	response, err := e.generateCustomerResponse(ctx, session, message)
	if err != nil {
		session.ConversationHistory = session.ConversationHistory[:len(session.ConversationHistory)-1]
		e.store.Put(session)
		return models.CustomerResponse{}, err
	}

	session.ConversationHistory = append(session.ConversationHistory, models.ConversationTurn{
		Speaker:   models.SpeakerCustomer,
		Message:   response.Message,
		Timestamp: e.now(),
	})
	session.TurnsRemaining--

	if response.WillBuy {
		session.Status = models.StatusWon
		session.PlayerMoney += session.Product.Price
	} else if session.TurnsRemaining <= 0 {
		session.Status = models.StatusLost
	}

	e.store.Put(session)
	return response, nil
}

// GetGameSession is a pure lookup; the second result reports presence.
func (e *Engine) GetGameSession(sessionID string) (*models.GameSession, bool) {
	return e.store.Get(sessionID)
}

// EndGame computes the settlement for a session and removes it from the
// store, even if it is still active.
func (e *Engine) EndGame(sessionID string) (models.SalesResult, error) {
	mu := e.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, ok := e.store.Get(sessionID)
	if !ok {
		return models.SalesResult{}, ErrSessionNotFound
	}

	result := models.SalesResult{
		Success:     session.Status == models.StatusWon,
		MoneyEarned: session.PlayerMoney,
	}
	if result.Success {
		result.FinalMessage = fmt.Sprintf("Yey! You successfully sold the %s for $%s!", session.Product.Name, formatPrice(session.Product.Price))
	} else {
		result.FinalMessage = fmt.Sprintf("Nooo! The customer left without buying the %s.", session.Product.Name)
	}
	if last := session.LastCustomerMessage(); last != "" {
		result.Reason = fmt.Sprintf("Here's what they said: %q", last)
	}

	e.store.Delete(sessionID)
	e.locks.Delete(sessionID)
	return result, nil
}

func (e *Engine) generateCustomerResponse(ctx context.Context, session *models.GameSession, playerMessage string) (models.CustomerResponse, error) {
	tmpl, err := template.New("customer_reply").Parse(customerReplyPrompt)
	if err != nil {
		return models.CustomerResponse{}, err
	}

	historyText := ""
	for _, turn := range session.ConversationHistory {
		historyText += fmt.Sprintf("%s: %s\n", turn.Speaker, turn.Message)
	}

	var buf bytes.Buffer
	data := struct {
		CustomerName        string
		CustomerDescription string
		Patience            int
		ProductName         string
		ProductPrice        string
		History             string
		PlayerMessage       string
	}{
		CustomerName:        session.Customer.Name,
		CustomerDescription: session.Customer.Description,
		Patience:            session.TurnsRemaining,
		ProductName:         session.Product.Name,
		ProductPrice:        formatPrice(session.Product.Price),
		History:             historyText,
		PlayerMessage:       playerMessage,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return models.CustomerResponse{}, err
	}

	shape := gemini.Shape{Fields: []gemini.Field{
		{Name: "message", Type: gemini.FieldString, Description: "Your response as the customer (be natural and in character)"},
		{Name: "willBuy", Type: gemini.FieldBoolean, Description: "true if convinced to buy"},
	}}

	raw, err := e.gen.GenerateStructured(ctx, buf.String(), shape)
	if err != nil {
		return models.CustomerResponse{}, err
	}
	return decodeCustomerResponse(raw)
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

const (
	minPatience = 3
	maxPatience = 8
)

func decodeProduct(raw string) (models.Product, error) {
	clean := stripFences(raw)

	var decoded struct {
		Name  *string  `json:"name"`
		Price *float64 `json:"price"`
	}
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return models.Product{}, fmt.Errorf("%w: failed to parse product: %v\nOutput was: %s", gemini.ErrGeneration, err, clean)
	}
	if decoded.Name == nil || *decoded.Name == "" {
		return models.Product{}, fmt.Errorf("%w: product is missing a name", gemini.ErrGeneration)
	}
	if decoded.Price == nil || *decoded.Price <= 0 {
		return models.Product{}, fmt.Errorf("%w: product price must be positive", gemini.ErrGeneration)
	}

	return models.Product{Name: *decoded.Name, Price: *decoded.Price}, nil
}

func decodeCustomer(raw string) (models.Customer, error) {
	clean := stripFences(raw)

	var decoded struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Patience    *int    `json:"patience"`
	}
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return models.Customer{}, fmt.Errorf("%w: failed to parse customer: %v\nOutput was: %s", gemini.ErrGeneration, err, clean)
	}
	if decoded.Name == nil || *decoded.Name == "" {
		return models.Customer{}, fmt.Errorf("%w: customer is missing a name", gemini.ErrGeneration)
	}
	if decoded.Description == nil || *decoded.Description == "" {
		return models.Customer{}, fmt.Errorf("%w: customer is missing a description", gemini.ErrGeneration)
	}
	if decoded.Patience == nil || *decoded.Patience < minPatience || *decoded.Patience > maxPatience {
		return models.Customer{}, fmt.Errorf("%w: customer patience must be between %d and %d", gemini.ErrGeneration, minPatience, maxPatience)
	}

	return models.Customer{
		Name:        *decoded.Name,
		Description: *decoded.Description,
		Patience:    *decoded.Patience,
	}, nil
}

func decodeCustomerResponse(raw string) (models.CustomerResponse, error) {
	clean := stripFences(raw)

	var decoded struct {
		Message *string `json:"message"`
		WillBuy *bool   `json:"willBuy"`
	}
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return models.CustomerResponse{}, fmt.Errorf("%w: failed to parse customer response: %v\nOutput was: %s", gemini.ErrGeneration, err, clean)
	}
	if decoded.Message == nil || *decoded.Message == "" {
		return models.CustomerResponse{}, fmt.Errorf("%w: customer response is missing a message", gemini.ErrGeneration)
	}
	if decoded.WillBuy == nil {
		return models.CustomerResponse{}, fmt.Errorf("%w: customer response is missing a buying decision", gemini.ErrGeneration)
	}

	return models.CustomerResponse{Message: *decoded.Message, WillBuy: *decoded.WillBuy}, nil
}

func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func f64(v float64) *float64 {
	return &v
}
