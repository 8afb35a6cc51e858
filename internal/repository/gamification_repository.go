package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// GamificationRepository records point awards and reads standings.
type GamificationRepository interface {
	Award(ctx context.Context, event *domain.GamificationEvent) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.GamificationEvent, error)
}

type gamificationRepository struct {
	pool *pgxpool.Pool
}

// NewGamificationRepository builds repository.
func NewGamificationRepository(pool *pgxpool.Pool) GamificationRepository {
	return &gamificationRepository{pool: pool}
}

// Award inserts the event and bumps the profile total atomically, returning
// the user's new point balance.
func (r *gamificationRepository) Award(ctx context.Context, event *domain.GamificationEvent) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin award: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO gamification_events (user_id, event_type, points, description)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		event.UserID,
		event.EventType,
		event.Points,
		event.Description,
	).Scan(&event.ID, &event.CreatedAt); err != nil {
		return 0, err
	}

	var total int
	const bump = `UPDATE profiles SET gamification_points = gamification_points + $1 WHERE id=$2 RETURNING gamification_points`
	if err := tx.QueryRow(ctx, bump, event.Points, event.UserID).Scan(&total); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit award: %w", err)
	}
	return total, nil
}

func (r *gamificationRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit, _ = pageBounds(limit, 0)
	const query = `
        SELECT id, full_name, gamification_points FROM profiles
        WHERE gamification_points > 0
        ORDER BY gamification_points DESC, full_name ASC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.LeaderboardEntry{}
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.FullName, &entry.Points); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *gamificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.GamificationEvent, error) {
	limit, _ = pageBounds(limit, 0)
	const query = `
        SELECT id, user_id, event_type, points, description, created_at
        FROM gamification_events WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GamificationEvent, error) {
		var event domain.GamificationEvent
		err := row.Scan(&event.ID, &event.UserID, &event.EventType, &event.Points, &event.Description, &event.CreatedAt)
		return event, err
	})
}
