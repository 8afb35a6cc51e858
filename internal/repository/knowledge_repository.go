package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// KnowledgeFilter narrows knowledge base listings.
type KnowledgeFilter struct {
	Category *domain.Category
	Query    *string
	Limit    int
	Offset   int
}

// KnowledgeRepository persists knowledge base articles.
type KnowledgeRepository interface {
	Create(ctx context.Context, article *domain.KnowledgeArticle) error
	CreateIfAbsent(ctx context.Context, article *domain.KnowledgeArticle) (bool, error)
	Update(ctx context.Context, article *domain.KnowledgeArticle) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error)
	List(ctx context.Context, filter KnowledgeFilter) ([]domain.KnowledgeArticle, error)
	ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error)
	IncrementViewCount(ctx context.Context, id string) error
	IncrementHelpfulCount(ctx context.Context, id string) error
}

type knowledgeRepository struct {
	pool *pgxpool.Pool
}

// NewKnowledgeRepository builds repository.
func NewKnowledgeRepository(pool *pgxpool.Pool) KnowledgeRepository {
	return &knowledgeRepository{pool: pool}
}

const articleColumns = `id, title, content, category, keywords, view_count, helpful_count, created_by, created_at, updated_at`

func (r *knowledgeRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        INSERT INTO knowledge_base (title, content, category, keywords, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, view_count, helpful_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		keywordsOrEmpty(article.Keywords),
		article.CreatedBy,
	).Scan(&article.ID, &article.ViewCount, &article.HelpfulCount, &article.CreatedAt, &article.UpdatedAt)
}

// CreateIfAbsent inserts the article unless one with the same title exists.
func (r *knowledgeRepository) CreateIfAbsent(ctx context.Context, article *domain.KnowledgeArticle) (bool, error) {
	const query = `
        INSERT INTO knowledge_base (title, content, category, keywords, created_by)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (title) DO NOTHING
        RETURNING id, view_count, helpful_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		keywordsOrEmpty(article.Keywords),
		article.CreatedBy,
	).Scan(&article.ID, &article.ViewCount, &article.HelpfulCount, &article.CreatedAt, &article.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *knowledgeRepository) Update(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        UPDATE knowledge_base SET title=$1, content=$2, category=$3, keywords=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		keywordsOrEmpty(article.Keywords),
		article.ID,
	).Scan(&article.UpdatedAt)
}

func (r *knowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	article, err := scanArticle(r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM knowledge_base WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *knowledgeRepository) List(ctx context.Context, filter KnowledgeFilter) ([]domain.KnowledgeArticle, error) {
	query, args := buildKnowledgeQuery(filter)
	return r.query(ctx, query, args...)
}

// ListByCategory returns up to limit articles of a category, oldest first.
func (r *knowledgeRepository) ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error) {
	const query = `SELECT ` + articleColumns + ` FROM knowledge_base WHERE category=$1 ORDER BY created_at ASC, id ASC LIMIT $2`
	return r.query(ctx, query, category, limit)
}

func (r *knowledgeRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE knowledge_base SET view_count = view_count + 1 WHERE id=$1`, id)
}

func (r *knowledgeRepository) IncrementHelpfulCount(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE knowledge_base SET helpful_count = helpful_count + 1 WHERE id=$1`, id)
}

func (r *knowledgeRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *knowledgeRepository) query(ctx context.Context, query string, args ...any) ([]domain.KnowledgeArticle, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.KnowledgeArticle{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func buildKnowledgeQuery(filter KnowledgeFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Query != nil && strings.TrimSpace(*filter.Query) != "" {
		term := strings.ToLower(strings.TrimSpace(*filter.Query))
		args = append(args, "%"+term+"%")
		like := fmt.Sprintf("$%d", len(args))
		args = append(args, term)
		exact := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(content) LIKE %s OR EXISTS (SELECT 1 FROM unnest(keywords) k WHERE LOWER(k) = %s))",
			like, like, exact))
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM knowledge_base WHERE %s ORDER BY view_count DESC, title ASC LIMIT %d OFFSET %d`,
		articleColumns, strings.Join(clauses, " AND "), limit, offset)
	return query, args
}

func keywordsOrEmpty(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}

func scanArticle(row pgx.Row) (domain.KnowledgeArticle, error) {
	var article domain.KnowledgeArticle
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.Keywords,
		&article.ViewCount,
		&article.HelpfulCount,
		&article.CreatedBy,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	return article, err
}
