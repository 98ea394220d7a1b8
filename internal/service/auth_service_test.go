package service

import (
	"context"
	"errors"
	"testing"

	"vocabquiz/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, "  Lan  ", "lan@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Name != "Lan" {
		t.Errorf("Name = %q, want trimmed", user.Name)
	}

	if _, err := env.auth.Register(ctx, "Lan", "", "password123"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate Register() error = %v, want ErrNameTaken", err)
	}

	token, _, got, err := env.auth.Login(ctx, "Lan", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Login() user = %d, want %d", got.ID, user.ID)
	}

	claims, err := env.auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	if _, err := env.auth.Register(ctx, "Minh", "", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "wrong password", user: "Minh", password: "password124"},
		{name: "unknown user", user: "Nobody", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := env.auth.Login(ctx, tt.user, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		email    string
		password string
	}{
		{name: "short password", user: "Hoa", password: "short"},
		{name: "bad email", user: "Hoa", email: "not-an-email", password: "password123"},
		{name: "empty name", user: "  ", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.user, tt.email, tt.password)
			var ve validation.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Register() error = %v, want ValidationError", err)
			}
		})
	}
}
