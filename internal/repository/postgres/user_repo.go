package postgres

import (
	"context"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, subject, email, name, created_at, updated_at`

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	user := &domain.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetBySubject retrieves a user by its token subject
func (r *UserRepository) GetBySubject(subject string) (*domain.User, error) {
	ctx := context.Background()
	user := &domain.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = $1`,
		subject,
	).Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateOrGetBySubject inserts the user on first login and refreshes the
// profile fields on every later one.
func (r *UserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	ctx := context.Background()
	user := &domain.User{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (subject, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subject) DO UPDATE
		 SET email = EXCLUDED.email, name = COALESCE(EXCLUDED.name, users.name), updated_at = now()
		 RETURNING `+userColumns,
		subject, email, name,
	).Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
