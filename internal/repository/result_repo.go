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

// ResultRepository stores finished sessions and answers leaderboard queries
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult writes the result row and its answer log in one transaction
func (r *ResultRepository) SaveResult(ctx context.Context, result *models.GameResult) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			INSERT INTO game_results (user_id, variant, score, wrong_count, total, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		id, err := tx.InsertReturningID(ctx, query,
			result.UserID, result.Variant, result.Score, result.WrongCount, result.Total, result.Status)
		if err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}

		for questionID, answer := range result.Answers {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO game_result_answers (result_id, question_id, answer_text) VALUES (?, ?, ?)",
				id, questionID, answer)
			if err != nil {
				return fmt.Errorf("failed to save answer for question %d: %w", questionID, err)
			}
		}

		result.ID = id
		result.CreatedAt = time.Now()
		return nil
	})
}

// GetResult loads a stored result with its answers. It returns nil when none exists.
func (r *ResultRepository) GetResult(ctx context.Context, id int64) (*models.GameResult, error) {
	query := `
		SELECT id, user_id, variant, score, wrong_count, total, status, created_at
		FROM game_results
		WHERE id = ?
	`
	res := &models.GameResult{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.Variant, &res.Score, &res.WrongCount, &res.Total, &res.Status, &res.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT question_id, answer_text FROM game_result_answers WHERE result_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get result answers: %w", err)
	}
	defer rows.Close()

	res.Answers = map[int64]string{}
	for rows.Next() {
		var questionID int64
		var answer string
		if err := rows.Scan(&questionID, &answer); err != nil {
			return nil, fmt.Errorf("failed to scan result answer: %w", err)
		}
		res.Answers[questionID] = answer
	}
	return res, rows.Err()
}

// GetLeaderboard ranks players by their best score
func (r *ResultRepository) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, MAX(gr.score) AS best_score, COUNT(gr.id) AS games
		FROM game_results gr
		INNER JOIN users u ON u.id = gr.user_id
		GROUP BY u.id, u.name
		ORDER BY best_score DESC, games ASC, u.name ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.BestScore, &e.GamesCount); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetUserBest returns a player's highest score, zero if they have not played
func (r *ResultRepository) GetUserBest(ctx context.Context, userID int64) (int, error) {
	var best int
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(score), 0) FROM game_results WHERE user_id = ?", userID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("failed to get best score: %w", err)
	}
	return best, nil
}
