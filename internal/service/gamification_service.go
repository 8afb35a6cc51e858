package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// PointValues is the number of points each event type earns.
var PointValues = map[domain.GamificationEventType]int{
	domain.EventSelfService:    5,
	domain.EventTicketCreated:  2,
	domain.EventTicketResolved: 10,
	domain.EventKBHelpful:      1,
}

// PointsAwarder grants gamification points.
type PointsAwarder interface {
	Award(ctx context.Context, userID string, eventType domain.GamificationEventType, description string) (int, error)
}

// PointsSummary is a user's balance and recent point history.
type PointsSummary struct {
	Points int
	Events []domain.GamificationEvent
}

// GamificationService awards points and reports standings.
type GamificationService struct {
	repo   repository.GamificationRepository
	users  repository.UserRepository
	logger *zap.Logger
}

// GamificationDependencies bundles repositories for the gamification service.
type GamificationDependencies struct {
	GamificationRepo repository.GamificationRepository
	UserRepo         repository.UserRepository
	Logger           *zap.Logger
}

// NewGamificationService constructs the service.
func NewGamificationService(deps GamificationDependencies) *GamificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GamificationService{repo: deps.GamificationRepo, users: deps.UserRepo, logger: logger}
}

// Award records an event worth PointValues[eventType] and returns the new balance.
func (s *GamificationService) Award(ctx context.Context, userID string, eventType domain.GamificationEventType, description string) (int, error) {
	points, ok := PointValues[eventType]
	if !ok {
		return 0, apperrors.NewValidationError("unknown gamification event", map[string]any{"event_type": eventType})
	}
	event := &domain.GamificationEvent{
		UserID:    userID,
		EventType: eventType,
		Points:    points,
	}
	if description != "" {
		event.Description = &description
	}
	total, err := s.repo.Award(ctx, event)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("points awarded",
		zap.String("user_id", userID),
		zap.String("event_type", string(eventType)),
		zap.Int("points", points),
		zap.Int("total", total),
	)
	return total, nil
}

// Leaderboard returns the top point earners.
func (s *GamificationService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.repo.Leaderboard(ctx, limit)
}

// Summary returns a user's balance with their most recent events.
func (s *GamificationService) Summary(ctx context.Context, userID string, limit int) (*PointsSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.GamificationEvent{}
	}
	return &PointsSummary{Points: user.GamificationPoints, Events: events}, nil
}

// awardQuietly grants points on a best-effort basis. Failures are logged and
// never surface to the caller's workflow.
func awardQuietly(ctx context.Context, awarder PointsAwarder, logger *zap.Logger, userID string, eventType domain.GamificationEventType, description string) {
	if awarder == nil || userID == "" {
		return
	}
	if _, err := awarder.Award(ctx, userID, eventType, description); err != nil {
		logger.Warn("failed to award points",
			zap.String("user_id", userID),
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
	}
}
