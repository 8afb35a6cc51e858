package domain

import "time"

// TicketComment is a message on a ticket thread. Internal comments are only
// visible to IT staff.
type TicketComment struct {
	ID         string
	TicketID   string
	UserID     string
	Comment    string
	IsInternal bool
	CreatedAt  time.Time
}
