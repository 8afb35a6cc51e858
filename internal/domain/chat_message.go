package domain

import "time"

// ChatMessage is an append-only log entry of one assistant exchange.
type ChatMessage struct {
	ID              string
	UserID          string
	Message         string
	Response        string
	CreatedTicketID *string
	SuggestedKBID   *string
	CreatedAt       time.Time
}
