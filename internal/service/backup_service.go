package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"vocabquiz/internal/database"
	"vocabquiz/internal/models"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/validation"
)

const backupVersion = "1.0"

// BackupData is the portable form of the lesson content
type BackupData struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Lessons    []LessonBackup `json:"lessons"`
}

// LessonBackup is one lesson with its questions in lesson order
type LessonBackup struct {
	Title     string           `json:"title"`
	Questions []QuestionBackup `json:"questions"`
}

// QuestionBackup is a question without its database identity
type QuestionBackup struct {
	Text          string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer"`
	Type          string `json:"question_type"`
}

// BackupService exports and imports lessons. Player data is never exported.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes every lesson to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	log.Printf("Lessons exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes every lesson as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	repo := repository.NewQuestionRepository(s.db)

	lessons, err := repo.GetLessons(ctx)
	if err != nil {
		return fmt.Errorf("failed to export lessons: %w", err)
	}

	backup := &BackupData{Version: backupVersion, ExportedAt: time.Now()}
	questionCount := 0
	for _, l := range lessons {
		qs, err := repo.GetByLesson(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("failed to export lesson %d: %w", l.ID, err)
		}
		lb := LessonBackup{Title: l.Title, Questions: make([]QuestionBackup, 0, len(qs))}
		for _, q := range qs {
			lb.Questions = append(lb.Questions, QuestionBackup{Text: q.Text, CorrectAnswer: q.CorrectAnswer, Type: string(q.Type)})
		}
		questionCount += len(qs)
		backup.Lessons = append(backup.Lessons, lb)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d lessons, %d questions", len(backup.Lessons), questionCount)
	return nil
}

// Import adds the lessons in inputPath as new lessons
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader adds every lesson in r in a single transaction. Nothing is
// written when any question is invalid.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	for i, l := range backup.Lessons {
		if l.Title == "" {
			return validation.ValidationError{Field: "title", Message: fmt.Sprintf("lesson %d has no title", i+1)}
		}
		for j, q := range l.Questions {
			if q.Text == "" || q.CorrectAnswer == "" {
				return validation.ValidationError{Field: "question", Message: fmt.Sprintf("lesson %q question %d is incomplete", l.Title, j+1)}
			}
		}
	}

	questionCount := 0
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := repository.NewQuestionRepository(tx)
		for _, l := range backup.Lessons {
			lessonID, err := repo.CreateLesson(ctx, l.Title)
			if err != nil {
				return err
			}
			for _, q := range l.Questions {
				_, err := repo.CreateQuestion(ctx, models.Question{
					LessonID:      lessonID,
					Text:          q.Text,
					CorrectAnswer: q.CorrectAnswer,
					Type:          models.ParseQuestionType(q.Type),
				})
				if err != nil {
					return err
				}
				questionCount++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import lessons: %w", err)
	}

	log.Printf("Imported: %d lessons, %d questions", len(backup.Lessons), questionCount)
	return nil
}
