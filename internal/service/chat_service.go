package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// ArticleLookup finds knowledge base articles for a category.
type ArticleLookup interface {
	ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error)
}

// ChatService answers helpdesk chat messages.
type ChatService struct {
	classifier classifier.Classifier
	articles   ArticleLookup
	chatLog    repository.ChatMessageRepository
	points     PointsAwarder
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ChatDependencies bundles collaborators for the chat service.
type ChatDependencies struct {
	Classifier  classifier.Classifier
	Articles    ArticleLookup
	ChatLogRepo repository.ChatMessageRepository
	Points      PointsAwarder
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		classifier: deps.Classifier,
		articles:   deps.Articles,
		chatLog:    deps.ChatLogRepo,
		points:     deps.Points,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// HandleMessage classifies the message, attaches matching articles and
// decides the next step. It always returns a response: any failure in the
// pipeline yields classifier.FallbackResponse.
func (s *ChatService) HandleMessage(ctx context.Context, msg domain.IssueMessage) (resp domain.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chat pipeline panicked", zap.Any("panic", r), zap.String("user_id", msg.SubmittedBy))
			s.metrics.RecordChatFallback()
			resp = classifier.FallbackResponse()
		}
	}()

	classification := s.classifier.Classify(ctx, msg)
	articles := s.lookupArticles(ctx, classification)
	resp = classifier.Respond(classification, articles)

	s.metrics.RecordClassification(classification.Category, resp.SuggestedAction)
	s.logger.Info("chat message classified",
		zap.String("user_id", msg.SubmittedBy),
		zap.String("classifier", s.classifier.Name()),
		zap.String("category", string(classification.Category)),
		zap.String("priority", string(classification.Priority)),
		zap.String("action", string(resp.SuggestedAction)),
		zap.Int("articles", len(resp.KBArticles)),
	)

	s.recordExchange(ctx, msg, resp)

	switch resp.SuggestedAction {
	case domain.ActionShowSolution:
		awardQuietly(ctx, s.points, s.logger, msg.SubmittedBy, domain.EventSelfService,
			fmt.Sprintf("Self-service %s solution", classification.Category))
	case domain.ActionCreateTicket:
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:  events.EventChatEscalated,
			Actor: events.Actor{UserID: msg.SubmittedBy},
			Payload: events.ChatEscalatedPayload{
				Message:  stringPreview(msg.Text, 280),
				Category: classification.Category,
				Priority: classification.Priority,
			},
		})
	}
	return resp
}

// History lists a user's most recent chat exchanges, newest first.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	if s.chatLog == nil {
		return []domain.ChatMessage{}, nil
	}
	history, err := s.chatLog.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return history, nil
}

func (s *ChatService) lookupArticles(ctx context.Context, c domain.Classification) []domain.KnowledgeArticle {
	if s.articles == nil {
		return nil
	}
	category := domain.Category(strings.ToLower(strings.TrimSpace(c.KBQuery)))
	if !category.Valid() {
		category = c.Category
	}
	articles, err := s.articles.ListByCategory(ctx, category, classifier.MaxArticles)
	if err != nil {
		s.logger.Warn("knowledge lookup failed; continuing without articles",
			zap.String("category", string(category)), zap.Error(err))
		return nil
	}
	return articles
}

func (s *ChatService) recordExchange(ctx context.Context, msg domain.IssueMessage, resp domain.ChatResponse) {
	if s.chatLog == nil || msg.SubmittedBy == "" {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("failed to encode chat response", zap.Error(err))
		return
	}
	entry := &domain.ChatMessage{
		UserID:   msg.SubmittedBy,
		Message:  msg.Text,
		Response: string(payload),
	}
	if len(resp.KBArticles) > 0 && resp.KBArticles[0].ID != "" {
		id := resp.KBArticles[0].ID
		entry.SuggestedKBID = &id
	}
	if err := s.chatLog.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to store chat message", zap.String("user_id", msg.SubmittedBy), zap.Error(err))
	}
}
