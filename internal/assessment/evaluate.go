package assessment

import "vocabquiz/internal/models"

// Verdict is the classification of one submitted answer.
type Verdict int

const (
	Incorrect Verdict = iota
	Correct
)

func (v Verdict) String() string {
	if v == Correct {
		return "correct"
	}
	return "incorrect"
}

// VerdictOf converts a boolean adjudication into a Verdict.
func VerdictOf(ok bool) Verdict {
	if ok {
		return Correct
	}
	return Incorrect
}

// EvaluateLocal compares the submitted answer to the question's key.
// Question type does not influence the result.
func EvaluateLocal(cfg Config, q models.Question, submitted string) Verdict {
	return VerdictOf(Normalize(cfg.AnswerPolicy, submitted) == Normalize(cfg.KeyPolicy, q.CorrectAnswer))
}
