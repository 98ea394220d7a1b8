package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"vocabquiz/internal/models"
	"vocabquiz/internal/validation"
)

func TestBackupExportImport(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	backup := NewBackupService(env.db)

	var buf bytes.Buffer
	if err := backup.ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	var data BackupData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(data.Lessons) != 2 || data.Lessons[0].Title != "Greetings" || len(data.Lessons[0].Questions) != 5 {
		t.Fatalf("exported lessons = %+v", data.Lessons)
	}
	if strings.Contains(buf.String(), "password") {
		t.Error("export must not contain player data")
	}

	if err := backup.ImportFromReader(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}
	lessons, _ := env.questions.GetLessons(ctx)
	if len(lessons) != 4 {
		t.Fatalf("lessons after import = %d, want 4", len(lessons))
	}
	copied, _ := env.questions.GetByLesson(ctx, lessons[2].ID)
	if len(copied) != 5 || copied[0].CorrectAnswer != "hello" || copied[4].Type != models.QuestionListenWrite {
		t.Errorf("imported Greetings = %+v", copied)
	}
}

func TestBackupImportRejectsInvalid(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	backup := NewBackupService(env.db)

	tests := []struct {
		name    string
		input   string
		wantVal bool
	}{
		{name: "malformed", input: `{"version":`},
		{name: "wrong version", input: `{"version":"9.9","lessons":[]}`},
		{name: "missing title", input: `{"version":"1.0","lessons":[{"title":"","questions":[]}]}`, wantVal: true},
		{name: "missing answer", input: `{"version":"1.0","lessons":[{"title":"Food","questions":[{"question_text":"Phở"}]}]}`, wantVal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := backup.ImportFromReader(ctx, strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ImportFromReader() error = nil")
			}
			var ve validation.ValidationError
			if got := errors.As(err, &ve); got != tt.wantVal {
				t.Errorf("validation error = %v, want %v (%v)", got, tt.wantVal, err)
			}
		})
	}

	lessons, _ := env.questions.GetLessons(ctx)
	if len(lessons) != 2 {
		t.Errorf("lessons after rejected imports = %d, want 2", len(lessons))
	}
}

func TestBackupFileRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	backup := NewBackupService(env.db)
	path := filepath.Join(t.TempDir(), "lessons.json")

	if err := backup.Export(ctx, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if err := backup.Import(ctx, path); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if err := backup.Import(ctx, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Import() of a missing file should fail")
	}
}
