package repository

import (
	"context"
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/db"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user data operations.
//
//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks ctchen222/pokedex/internal/api/repository UserRepository
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type sqlUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new sqlx-backed UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqlUserRepository{db: db}
}

// Create inserts user and fills in its generated id. The password must
// already be hashed.
func (r *sqlUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	query := r.db.Rebind(`INSERT INTO users (username, hashed_password) VALUES (?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.HashedPassword).Scan(&user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("username %q is already registered", user.Username)
		}
		return recordFault(span, apperr.Persistence(err, "failed to create user"))
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *sqlUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	var user models.User
	query := r.db.Rebind(`SELECT id, username, hashed_password FROM users WHERE username = ?`)
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, recordFault(span, apperr.Persistence(err, "failed to get user by username"))
	}
	return &user, nil
}
