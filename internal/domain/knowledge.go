package domain

import "time"

// KnowledgeArticle is a self-service document searchable by category and keywords.
type KnowledgeArticle struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     Category  `json:"category"`
	Keywords     []string  `json:"keywords"`
	ViewCount    int       `json:"view_count"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
