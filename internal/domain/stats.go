package domain

// Stats aggregates counts shown on the admin dashboard.
type Stats struct {
	TotalUsers        int              `json:"totalUsers"`
	TotalTickets      int              `json:"totalTickets"`
	OpenTickets       int              `json:"openTickets"`
	ResolvedTickets   int              `json:"resolvedTickets"`
	KBArticles        int              `json:"kbArticles"`
	TicketsByCategory map[Category]int `json:"ticketsByCategory"`
}
