package domain

import "time"

// GamificationEventType names the reason points were awarded.
type GamificationEventType string

const (
	EventSelfService    GamificationEventType = "self_service"
	EventTicketCreated  GamificationEventType = "ticket_created"
	EventTicketResolved GamificationEventType = "ticket_resolved"
	EventKBHelpful      GamificationEventType = "kb_helpful"
)

// GamificationEvent records points awarded to a user.
type GamificationEvent struct {
	ID          string
	UserID      string
	EventType   GamificationEventType
	Points      int
	Description *string
	CreatedAt   time.Time
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Points   int    `json:"points"`
}
