package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// ArticleRequest is the editable content of a knowledge-base article.
type ArticleRequest struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Category domain.Category `json:"category"`
	Keywords []string        `json:"keywords"`
}
