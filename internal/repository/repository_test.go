package repository

import (
	"context"
	"path/filepath"
	"testing"

	"vocabquiz/internal/database"
	"vocabquiz/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "linh", "linh@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := repo.GetUserByName(ctx, "linh")
	if err != nil || got == nil {
		t.Fatalf("GetUserByName() = %v, %v", got, err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash" || got.Email != "linh@example.com" {
		t.Errorf("GetUserByName() = %+v, want id %d", got, user.ID)
	}

	missing, err := repo.GetUserByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetUserByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	if _, err := repo.CreateUser(ctx, "linh", "", "other"); err == nil {
		t.Error("CreateUser() with duplicate name should fail")
	}
}

func TestQuestionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	lessonID, err := repo.CreateLesson(ctx, "Colors")
	if err != nil {
		t.Fatalf("CreateLesson() error = %v", err)
	}
	for _, q := range []models.Question{
		{LessonID: lessonID, Text: "Màu đỏ", CorrectAnswer: "red", Type: models.QuestionTranslate},
		{LessonID: lessonID, Text: "Màu xanh", CorrectAnswer: "blue", Type: models.QuestionListenWrite},
	} {
		if _, err := repo.CreateQuestion(ctx, q); err != nil {
			t.Fatalf("CreateQuestion() error = %v", err)
		}
	}

	qs, err := repo.GetByLesson(ctx, lessonID)
	if err != nil {
		t.Fatalf("GetByLesson() error = %v", err)
	}
	if len(qs) != 2 || qs[0].CorrectAnswer != "red" || qs[1].Type != models.QuestionListenWrite {
		t.Errorf("GetByLesson() = %+v", qs)
	}

	random, err := repo.GetRandom(ctx, 3)
	if err != nil {
		t.Fatalf("GetRandom() error = %v", err)
	}
	if len(random) != 3 {
		t.Errorf("GetRandom(3) returned %d questions", len(random))
	}

	user, _ := users.CreateUser(ctx, "minh", "", "hash")
	for i := 0; i < 2; i++ {
		if err := repo.AddToLibrary(ctx, user.ID, qs[1].ID); err != nil {
			t.Fatalf("AddToLibrary() error = %v", err)
		}
	}
	library, err := repo.GetFromLibrary(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetFromLibrary() error = %v", err)
	}
	if len(library) != 1 || library[0].ID != qs[1].ID {
		t.Errorf("GetFromLibrary() = %+v, want the one saved question", library)
	}

	if err := repo.RecordCheck(ctx, user.ID, qs[0].ID, "red", true); err != nil {
		t.Errorf("RecordCheck() error = %v", err)
	}

	q, err := repo.GetByID(ctx, qs[0].ID)
	if err != nil || q == nil || q.Text != "Màu đỏ" {
		t.Errorf("GetByID() = %+v, %v", q, err)
	}

	lessons, err := repo.GetLessons(ctx)
	if err != nil {
		t.Fatalf("GetLessons() error = %v", err)
	}
	if n := len(lessons); n != 3 || lessons[n-1].Title != "Colors" {
		t.Errorf("GetLessons() = %+v, want the two seeded lessons then Colors", lessons)
	}
}

func TestResultRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	a, _ := users.CreateUser(ctx, "an", "", "hash")
	b, _ := users.CreateUser(ctx, "binh", "", "hash")

	results := []*models.GameResult{
		{UserID: a.ID, Variant: "mini_game", Score: 4, WrongCount: 2, Total: 10, Status: "failed", Answers: map[int64]string{1: "hello", 2: ""}},
		{UserID: a.ID, Variant: "mini_game", Score: 7, WrongCount: 1, Total: 10, Status: "completed"},
		{UserID: b.ID, Variant: "mini_game", Score: 5, WrongCount: 0, Total: 5, Status: "completed"},
	}
	for _, r := range results {
		if err := repo.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
	}

	stored, err := repo.GetResult(ctx, results[0].ID)
	if err != nil || stored == nil {
		t.Fatalf("GetResult() = %v, %v", stored, err)
	}
	if len(stored.Answers) != 2 || stored.Answers[1] != "hello" {
		t.Errorf("stored answers = %v", stored.Answers)
	}

	board, err := repo.GetLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("GetLeaderboard() returned %d entries, want 2", len(board))
	}
	if board[0].Name != "an" || board[0].BestScore != 7 || board[0].GamesCount != 2 {
		t.Errorf("board[0] = %+v", board[0])
	}

	best, err := repo.GetUserBest(ctx, b.ID)
	if err != nil || best != 5 {
		t.Errorf("GetUserBest() = %d, %v; want 5", best, err)
	}
}
