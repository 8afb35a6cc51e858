package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

// UserFilter narrows profile listings.
type UserFilter struct {
	Roles  []domain.Role
	Limit  int
	Offset int
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, employee_id, full_name, email, department, phone, role, password_hash, gamification_points, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO profiles (employee_id, full_name, email, department, phone, role, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, gamification_points, created_at`

	return r.pool.QueryRow(ctx, query,
		user.EmployeeID,
		user.FullName,
		user.Email,
		user.Department,
		user.Phone,
		user.Role,
		user.PasswordHash,
	).Scan(&user.ID, &user.GamificationPoints, &user.CreatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE profiles SET full_name=$1, department=$2, phone=$3, role=$4, password_hash=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		user.FullName,
		user.Department,
		user.Phone,
		user.Role,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM profiles WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM profiles WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	query, args := buildUserQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func buildUserQuery(filter UserFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if len(filter.Roles) > 0 {
		clauses = append(clauses, inClause("role", filter.Roles, &args))
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s ORDER BY full_name ASC, id ASC LIMIT %d OFFSET %d`,
		userColumns, strings.Join(clauses, " AND "), limit, offset)
	return query, args
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, query, arg))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.EmployeeID,
		&user.FullName,
		&user.Email,
		&user.Department,
		&user.Phone,
		&user.Role,
		&user.PasswordHash,
		&user.GamificationPoints,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
