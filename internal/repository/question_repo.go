package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vocabquiz/internal/database"
	"vocabquiz/internal/models"
)

// QuestionRepository handles lessons, questions and each player's library
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = "q.id, COALESCE(q.lesson_id, 0), q.question_text, q.correct_answer, q.question_type"

// GetByLesson returns a lesson's questions in lesson order
func (r *QuestionRepository) GetByLesson(ctx context.Context, lessonID int64) ([]models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		WHERE q.lesson_id = ?
		ORDER BY q.position, q.id
	`
	return r.queryQuestions(ctx, query, lessonID)
}

// GetFromLibrary returns the questions a player saved, oldest first
func (r *QuestionRepository) GetFromLibrary(ctx context.Context, userID int64) ([]models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		INNER JOIN library_entries le ON le.question_id = q.id
		WHERE le.user_id = ?
		ORDER BY le.added_at, q.id
	`
	return r.queryQuestions(ctx, query, userID)
}

// GetRandom returns up to count questions drawn at random from every lesson
func (r *QuestionRepository) GetRandom(ctx context.Context, count int) ([]models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		ORDER BY ` + r.db.GetDialect().RandomOrder() + `
		LIMIT ?
	`
	return r.queryQuestions(ctx, query, count)
}

// GetByID retrieves one question. It returns nil when none exists.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		WHERE q.id = ?
	`
	var q models.Question
	var qType string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.LessonID, &q.Text, &q.CorrectAnswer, &qType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	q.Type = models.ParseQuestionType(qType)
	return &q, nil
}

// AddToLibrary saves a question to a player's library. Saving twice is a no-op.
func (r *QuestionRepository) AddToLibrary(ctx context.Context, userID, questionID int64) error {
	query := r.db.GetDialect().InsertIgnore("library_entries", "user_id", "question_id")
	if _, err := r.db.ExecContext(ctx, query, userID, questionID); err != nil {
		return fmt.Errorf("failed to add question to library: %w", err)
	}
	return nil
}

// RecordCheck stores the outcome of a server-side answer check
func (r *QuestionRepository) RecordCheck(ctx context.Context, userID, questionID int64, answer string, correct bool) error {
	query := `
		INSERT INTO answer_checks (user_id, question_id, answer_text, is_correct)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, questionID, answer, correct); err != nil {
		return fmt.Errorf("failed to record answer check: %w", err)
	}
	return nil
}

// GetLessons returns every lesson in creation order
func (r *QuestionRepository) GetLessons(ctx context.Context) ([]models.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, created_at FROM lessons ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// CreateLesson inserts a lesson
func (r *QuestionRepository) CreateLesson(ctx context.Context, title string) (int64, error) {
	id, err := r.db.InsertReturningID(ctx, "INSERT INTO lessons (title) VALUES (?)", title)
	if err != nil {
		return 0, fmt.Errorf("failed to create lesson: %w", err)
	}
	return id, nil
}

// CreateQuestion inserts a question at the end of its lesson
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q models.Question) (int64, error) {
	var lessonID any
	var position int
	if q.LessonID != 0 {
		lessonID = q.LessonID
		err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE lesson_id = ?", q.LessonID).Scan(&position)
		if err != nil {
			return 0, fmt.Errorf("failed to count lesson questions: %w", err)
		}
	}
	query := `
		INSERT INTO questions (lesson_id, question_text, correct_answer, question_type, position)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, query, lessonID, q.Text, q.CorrectAnswer, string(q.Type), position+1)
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return id, nil
}

func (r *QuestionRepository) queryQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var qType string
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Text, &q.CorrectAnswer, &qType); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Type = models.ParseQuestionType(qType)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return questions, nil
}
