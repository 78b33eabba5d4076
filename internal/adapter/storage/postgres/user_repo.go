package postgres

import (
	"context"
	"errors"
	"fmt"

	"lenormand-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, phone, username, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Phone, u.Username, u.Avatar, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by its UUID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, phone, username, avatar, created_at, updated_at
		FROM users WHERE id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Phone, &u.Username, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT id, phone, username, avatar, created_at, updated_at
		FROM users WHERE phone = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, phone).Scan(
		&u.ID, &u.Phone, &u.Username, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

// Update updates a user's profile fields.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users
		SET username=$1, avatar=$2, updated_at=$3
		WHERE id=$4`
	_, err := r.pool.Exec(ctx, query, u.Username, u.Avatar, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
