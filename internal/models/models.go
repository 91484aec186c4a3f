package models

import "time"

// Speaker identifies who said a line in the conversation.
type Speaker string

const (
	SpeakerPlayer   Speaker = "player"
	SpeakerCustomer Speaker = "customer"
)

// Status is the lifecycle state of a game session. A session starts active
// and moves to exactly one of won or lost; there is no way back.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Product is the thing the player is trying to sell.
type Product struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// Customer is the generated persona the player is selling to. Patience is
// the number of conversation turns they will sit through before leaving.
type Customer struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Patience    int    `json:"patience" yaml:"patience"`
}

// ConversationTurn is a single line of dialogue. Turns are append-only and
// strictly alternate player/customer, player first.
type ConversationTurn struct {
	Speaker   Speaker   `json:"speaker" yaml:"speaker"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// GameSession aggregates everything about one play-through.
type GameSession struct {
	SessionID           string             `json:"sessionId" yaml:"session_id"`
	Product             Product            `json:"product" yaml:"product"`
	Customer            Customer           `json:"customer" yaml:"customer"`
	ConversationHistory []ConversationTurn `json:"conversationHistory" yaml:"conversation_history"`
	TurnsRemaining      int                `json:"turnsRemaining" yaml:"turns_remaining"`
	PlayerMoney         float64            `json:"playerMoney" yaml:"player_money"`
	Status              Status             `json:"status" yaml:"status"`
}

// Ended reports whether the session has reached a terminal status.
func (s *GameSession) Ended() bool {
	return s.Status != StatusActive
}

// LastCustomerMessage returns the most recent customer line, or "" if the
// customer has not spoken yet.
func (s *GameSession) LastCustomerMessage() string {
	for i := len(s.ConversationHistory) - 1; i >= 0; i-- {
		if s.ConversationHistory[i].Speaker == SpeakerCustomer {
			return s.ConversationHistory[i].Message
		}
	}
	return ""
}

// CustomerResponse is the resolved outcome of one player message.
type CustomerResponse struct {
	Message string `json:"message" yaml:"message"`
	WillBuy bool   `json:"willBuy" yaml:"will_buy"`
}

// SalesResult is the settlement computed when a game ends.
type SalesResult struct {
	Success      bool    `json:"success" yaml:"success"`
	MoneyEarned  float64 `json:"moneyEarned" yaml:"money_earned"`
	FinalMessage string  `json:"finalMessage" yaml:"final_message"`
	Reason       string  `json:"reason" yaml:"reason"`
}
