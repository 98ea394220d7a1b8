package assessment

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Result is the terminal summary of a session.
type Result struct {
	UserID     int64            `json:"userID"`
	Variant    string           `json:"variant"`
	Status     Status           `json:"status"`
	Score      int              `json:"newScore"`
	WrongCount int              `json:"wrongCount"`
	Total      int              `json:"total"`
	Answers    map[int64]string `json:"questionAnswers"`
}

// Result builds the summary from the current state.
func (s State) Result() Result {
	answers := make(map[int64]string, len(s.AnswerLog))
	for k, v := range s.AnswerLog {
		answers[k] = v
	}
	return Result{
		UserID:     s.UserID,
		Variant:    s.Config.Variant,
		Status:     s.Status,
		Score:      s.Score,
		WrongCount: s.WrongCount,
		Total:      len(s.Questions),
		Answers:    answers,
	}
}

// Emitter delivers a session's result to its sink at most once.
// Transport failures are returned to the caller for logging and never retried.
type Emitter struct {
	sink  ResultSink
	fired atomic.Bool
}

// NewEmitter wraps sink. A nil sink makes every emission a no-op.
func NewEmitter(sink ResultSink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit hands r to the sink. It reports false without calling the sink when the
// emitter has already fired.
func (e *Emitter) Emit(ctx context.Context, r Result) (bool, error) {
	if !e.fired.CompareAndSwap(false, true) {
		return false, nil
	}
	if e.sink == nil {
		return true, nil
	}
	if err := e.sink.SubmitResult(ctx, r); err != nil {
		return true, fmt.Errorf("%w: %w", ErrEmissionFailure, err)
	}
	return true, nil
}
