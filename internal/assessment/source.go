package assessment

import (
	"context"
	"fmt"

	"vocabquiz/internal/models"
)

// SelectorKind says which pool a question set is drawn from.
type SelectorKind int

const (
	SelectLesson SelectorKind = iota
	SelectLibrary
	SelectRandom
)

// Selector identifies the question set to load. Exactly one of the IDs is meaningful,
// depending on Kind.
type Selector struct {
	Kind     SelectorKind
	LessonID int64
	UserID   int64
	PoolSize int
}

func (s Selector) String() string {
	switch s.Kind {
	case SelectLesson:
		return fmt.Sprintf("lesson:%d", s.LessonID)
	case SelectLibrary:
		return fmt.Sprintf("library:%d", s.UserID)
	case SelectRandom:
		return fmt.Sprintf("random:%d", s.PoolSize)
	default:
		return "unknown"
	}
}

// QuestionSource retrieves the ordered question set for a session.
type QuestionSource interface {
	LoadQuestions(ctx context.Context, sel Selector) ([]models.Question, error)
}

// Adjudicator decides correctness remotely in delegated mode.
type Adjudicator interface {
	CheckAnswer(ctx context.Context, userID, questionID int64, answer string) (bool, error)
}

// ResultSink persists a terminal result. It is called at most once per session.
type ResultSink interface {
	SubmitResult(ctx context.Context, result Result) error
}

// Speaker produces audio for a text and returns a reference the client can play.
type Speaker interface {
	Speak(ctx context.Context, text string) (string, error)
}

// SelectorFor returns the selector each variant draws its questions from.
// A zero count means the default random pool size.
func SelectorFor(variant string, userID, lessonID int64, count int) (Selector, error) {
	switch variant {
	case VariantLessonQuiz:
		if lessonID <= 0 {
			return Selector{}, fmt.Errorf("lesson quiz needs a lesson ID")
		}
		return Selector{Kind: SelectLesson, LessonID: lessonID}, nil
	case VariantLibraryQuiz:
		return Selector{Kind: SelectLibrary, UserID: userID}, nil
	case VariantMiniGame:
		if count <= 0 {
			count = DefaultRandomPoolSize
		}
		return Selector{Kind: SelectRandom, PoolSize: count}, nil
	default:
		return Selector{}, fmt.Errorf("unknown variant: %s", variant)
	}
}
