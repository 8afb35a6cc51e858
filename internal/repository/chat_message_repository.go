package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ChatMessageRepository appends and reads the assistant chat log.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
}

type chatMessageRepository struct {
	pool *pgxpool.Pool
}

// NewChatMessageRepository builds repository.
func NewChatMessageRepository(pool *pgxpool.Pool) ChatMessageRepository {
	return &chatMessageRepository{pool: pool}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (user_id, message, response, created_ticket_id, suggested_kb_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.UserID,
		msg.Message,
		msg.Response,
		msg.CreatedTicketID,
		msg.SuggestedKBID,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *chatMessageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	limit, _ = pageBounds(limit, 0)
	const query = `
        SELECT id, user_id, message, response, created_ticket_id, suggested_kb_id, created_at
        FROM chat_messages WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Message,
			&msg.Response,
			&msg.CreatedTicketID,
			&msg.SuggestedKBID,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
