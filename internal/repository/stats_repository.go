package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	Overview(ctx context.Context) (*domain.Stats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Overview(ctx context.Context) (*domain.Stats, error) {
	const totals = `
        SELECT
            (SELECT COUNT(*) FROM profiles),
            (SELECT COUNT(*) FROM tickets),
            (SELECT COUNT(*) FROM tickets WHERE status = 'open'),
            (SELECT COUNT(*) FROM tickets WHERE status = 'resolved'),
            (SELECT COUNT(*) FROM knowledge_base)`

	stats := &domain.Stats{TicketsByCategory: map[domain.Category]int{}}
	if err := r.pool.QueryRow(ctx, totals).Scan(
		&stats.TotalUsers,
		&stats.TotalTickets,
		&stats.OpenTickets,
		&stats.ResolvedTickets,
		&stats.KBArticles,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category domain.Category
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.TicketsByCategory[category] = count
	}
	return stats, rows.Err()
}
