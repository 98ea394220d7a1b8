package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vocabquiz/internal/database"
	"vocabquiz/internal/models"
)

// UserRepository handles database operations for players
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new player
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	var emailArg any
	if email != "" {
		emailArg = email
	}
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES (?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, query, name, emailArg, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	now := time.Now()
	return &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByName retrieves a player by login name. It returns nil when none exists.
func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.getUser(ctx, "name = ?", name)
}

// GetUserByID retrieves a player by ID. It returns nil when none exists.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), password_hash, created_at, updated_at
		FROM users
		WHERE ` + where
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
