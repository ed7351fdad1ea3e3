package service

import (
	"context"
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/api/repository"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/auth"
	"errors"
	"fmt"
	"log/slog"
)

const tokenTypeBearer = "bearer"

var errInvalidCredentials = apperr.Auth("invalid username or password")

// UserService defines the interface for user-related business logic.
//
//go:generate mockgen -destination=../../mocks/mock_user_service.go -package=mocks ctchen222/pokedex/internal/api/service UserService
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenIssuer) UserService {
	return &userService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

// Register creates a user storing only the password digest. A taken username is a Conflict.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	_, err := s.userRepo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, apperr.Conflict("username %q is already registered", req.Username)
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &models.User{Username: req.Username, HashedPassword: digest}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown users and
// wrong passwords get the same error.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			slog.DebugContext(ctx, "Login for unknown user", "username", req.Username)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		slog.DebugContext(ctx, "Login with wrong password", "username", req.Username)
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueDefault(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}
