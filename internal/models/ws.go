package models

import "encoding/json"

// WSMessage is the envelope for every frame on /ws/quiz
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// client to server
	TypeInit   = "INIT"
	TypeAnswer = "ANSWER"
	TypeQuit   = "QUIT"

	// server to client
	TypeState        = "STATE"
	TypeTick         = "TICK"
	TypeVerdictError = "VERDICT_ERROR"
	TypeGameOver     = "GAME_OVER"
	TypeError        = "ERROR"
)

type InitPayload struct {
	Variant  string `json:"variant"`
	LessonID int64  `json:"lessonID"`
	Count    int    `json:"count"`
}

type AnswerPayload struct {
	Token  uint64 `json:"token"`
	Answer string `json:"answer"`
}

// QuestionView is a question as shown to the player. The key is withheld.
type QuestionView struct {
	ID    int64        `json:"questionID"`
	Text  string       `json:"questionText"`
	Type  QuestionType `json:"type"`
	Audio string       `json:"audioURL,omitempty"`
}

type StatePayload struct {
	SessionID       string        `json:"sessionId"`
	Status          string        `json:"status"`
	Token           uint64        `json:"token"`
	Index           int           `json:"index"`
	Total           int           `json:"total"`
	Question        *QuestionView `json:"question,omitempty"`
	TimeRemaining   int           `json:"timeRemaining"`
	Score           int           `json:"score"`
	WrongCount      int           `json:"wrongCount"`
	WrongLimit      int           `json:"wrongLimit"`
	AwaitingVerdict bool          `json:"awaitingVerdict"`
}

type TickPayload struct {
	Token         uint64 `json:"token"`
	TimeRemaining int    `json:"timeRemaining"`
}

type GameOverPayload struct {
	Status     string           `json:"status"`
	Score      int              `json:"score"`
	WrongCount int              `json:"wrongCount"`
	Total      int              `json:"total"`
	Answers    map[int64]string `json:"questionAnswers"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
