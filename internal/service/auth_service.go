package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vocabquiz/internal/models"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/security"
	"vocabquiz/internal/validation"
)

var (
	ErrNameTaken          = errors.New("name already taken")
	ErrInvalidCredentials = errors.New("invalid name or password")
)

// AuthService handles player accounts and bearer tokens
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenIssuer
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a new player account. Email is optional.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.GetUserByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, name, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the password and issues a bearer token
func (s *AuthService) Login(ctx context.Context, name, password string) (string, time.Time, *models.User, error) {
	user, err := s.userRepo.GetUserByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// ValidateToken returns the player a bearer token belongs to
func (s *AuthService) ValidateToken(token string) (*models.PlayerClaims, error) {
	if token == "" {
		return nil, security.ErrInvalidToken
	}
	return s.tokens.Parse(token)
}
