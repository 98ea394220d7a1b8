package models

import "time"

// QuestionType describes how a question is presented to the learner.
// It never changes how an answer is scored.
type QuestionType string

const (
	QuestionTranslate   QuestionType = "TRANSLATE"
	QuestionFillBlank   QuestionType = "FILL_BLANK"
	QuestionListenWrite QuestionType = "LISTEN_WRITE"
	QuestionPronounce   QuestionType = "PRONOUNCE"
)

// legacyQuestionTypes maps the type names stored by older clients.
var legacyQuestionTypes = map[string]QuestionType{
	"VI_TO_EN":          QuestionTranslate,
	"FILL_IN_THE_BLANK": QuestionFillBlank,
	"LISTEN_AND_WRITE":  QuestionListenWrite,
	"PRONUNCIATION":     QuestionPronounce,
}

// ParseQuestionType accepts both current and legacy type names.
// Unknown names fall back to TRANSLATE.
func ParseQuestionType(s string) QuestionType {
	switch t := QuestionType(s); t {
	case QuestionTranslate, QuestionFillBlank, QuestionListenWrite, QuestionPronounce:
		return t
	}
	if t, ok := legacyQuestionTypes[s]; ok {
		return t
	}
	return QuestionTranslate
}

// HasAudio reports whether the question should be read aloud before answering.
func (t QuestionType) HasAudio() bool {
	return t == QuestionListenWrite || t == QuestionPronounce
}

// Question is a single assessment item. It is immutable once loaded.
type Question struct {
	ID            int64        `json:"questionID"`
	LessonID      int64        `json:"lessonID,omitempty"`
	Text          string       `json:"questionText"`
	CorrectAnswer string       `json:"correctAnswer"`
	Type          QuestionType `json:"type"`
}

// Lesson groups questions for the lesson quiz.
type Lesson struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// AnswerCheck records one server-side adjudication.
type AnswerCheck struct {
	ID         int64
	UserID     int64
	QuestionID int64
	AnswerText string
	IsCorrect  bool
	CheckedAt  time.Time
}
