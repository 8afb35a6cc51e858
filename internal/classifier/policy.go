package classifier

import "github.com/spec-kit/helpdesk-service/internal/domain"

// HandoffMessage replaces the solution whenever the assistant escalates to a ticket.
const HandoffMessage = "I'll need to create a ticket for this issue so our IT team can help you."

// MaxArticles caps the knowledge-base articles attached to a response.
const MaxArticles = 3

// Action decides the next step for a classification.
func Action(c domain.Classification) domain.SuggestedAction {
	if c.IsCommon && c.Solution != "" {
		return domain.ActionShowSolution
	}
	return domain.ActionCreateTicket
}

// Respond assembles the chat response for a classification and the articles
// found for its kbQuery.
func Respond(c domain.Classification, articles []domain.KnowledgeArticle) domain.ChatResponse {
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}
	kb := make([]domain.KnowledgeArticle, len(articles))
	copy(kb, articles)

	resp := domain.ChatResponse{
		Classification:  c,
		KBArticles:      kb,
		SuggestedAction: Action(c),
		Solution:        c.Solution,
	}
	if resp.SuggestedAction == domain.ActionCreateTicket {
		resp.Solution = HandoffMessage
	}
	return resp
}

// FallbackResponse is returned when the chat pipeline fails outright.
func FallbackResponse() domain.ChatResponse {
	return Respond(FallbackClassification(), nil)
}
