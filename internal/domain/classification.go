package domain

// Category is the functional area of a reported problem.
type Category string

const (
	CategoryNetwork  Category = "network"
	CategoryAccount  Category = "account"
	CategoryEmail    Category = "email"
	CategoryHardware Category = "hardware"
	CategorySoftware Category = "software"
	CategoryPrinter  Category = "printer"
	CategoryOther    Category = "other"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryNetwork, CategoryAccount, CategoryEmail, CategoryHardware,
	CategorySoftware, CategoryPrinter, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is the urgency of a reported problem.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SuggestedAction tells the chat client what to do next.
type SuggestedAction string

const (
	ActionShowSolution SuggestedAction = "show_solution"
	ActionCreateTicket SuggestedAction = "create_ticket"
)

// IssueMessage is one chat turn as submitted by an employee.
type IssueMessage struct {
	Text        string
	SubmittedBy string
}

// Classification is derived purely from an IssueMessage's text.
type Classification struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	IsCommon bool     `json:"isCommon"`
	Solution string   `json:"solution"`
	KBQuery  string   `json:"kbQuery"`
}

// ChatResponse is returned to the chat client and stored in the chat log.
type ChatResponse struct {
	Classification  Classification     `json:"classification"`
	KBArticles      []KnowledgeArticle `json:"kbArticles"`
	SuggestedAction SuggestedAction    `json:"suggestedAction"`
	Solution        string             `json:"solution"`
}
