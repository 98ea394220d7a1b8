package models

import "time"

// GameResult is a persisted terminal summary of one assessment session.
type GameResult struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userID"`
	Variant    string           `json:"variant"`
	Score      int              `json:"score"`
	WrongCount int              `json:"wrongCount"`
	Total      int              `json:"total"`
	Status     string           `json:"status"`
	Answers    map[int64]string `json:"answers"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// LeaderboardEntry is one row of the high-score table.
type LeaderboardEntry struct {
	UserID     int64  `json:"userID"`
	Name       string `json:"fullName"`
	BestScore  int    `json:"bestScore"`
	GamesCount int    `json:"gamesCount"`
}
