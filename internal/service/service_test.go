package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vocabquiz/internal/database"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/security"
)

type testEnv struct {
	db        *database.DB
	users     *repository.UserRepository
	questions *repository.QuestionRepository
	results   *repository.ResultRepository
	auth      *AuthService
	quiz      *QuizService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		questions: repository.NewQuestionRepository(db),
		results:   repository.NewResultRepository(db),
	}
	env.auth = NewAuthService(env.users, security.NewTokenIssuer("test-secret", time.Hour))
	email, _ := NewEmailService(context.Background(), "us-east-1", "", "", "", false)
	env.quiz = NewQuizService(env.questions, env.results, env.users, email, nil,
		QuizSettings{MiniGameTimeLimit: 20, MiniGameWrongLimit: 2, RandomPoolSize: 5}, false)
	t.Cleanup(env.quiz.Shutdown)
	return env
}
