package assessment

import (
	"testing"

	"vocabquiz/internal/models"
)

func TestEvaluateLocal(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		key       string
		submitted string
		want      Verdict
	}{
		{name: "strip policy accepts trailing mark", cfg: LessonQuiz(), key: "hello", submitted: "Hello!", want: Correct},
		{name: "strip policy on both sides", cfg: LessonQuiz(), key: "Hello.", submitted: "hello", want: Correct},
		{name: "fold only rejects trailing mark", cfg: MiniGame(20, 2), key: "hello", submitted: "Hello!", want: Incorrect},
		{name: "fold only accepts case", cfg: MiniGame(20, 2), key: "Apple", submitted: " apple ", want: Correct},
		{name: "library strips answer only", cfg: LibraryQuiz(), key: "hello", submitted: "HELLO?", want: Correct},
		{name: "library keeps key punctuation", cfg: LibraryQuiz(), key: "hello!", submitted: "hello!", want: Incorrect},
		{name: "wrong word", cfg: LessonQuiz(), key: "dog", submitted: "cat", want: Incorrect},
		{name: "empty answer", cfg: LessonQuiz(), key: "dog", submitted: "", want: Incorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := models.Question{ID: 1, CorrectAnswer: tt.key, Type: models.QuestionTranslate}
			if got := EvaluateLocal(tt.cfg, q, tt.submitted); got != tt.want {
				t.Errorf("EvaluateLocal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateLocalIgnoresQuestionType(t *testing.T) {
	cfg := LessonQuiz()
	for _, qt := range []models.QuestionType{models.QuestionTranslate, models.QuestionFillBlank, models.QuestionListenWrite, models.QuestionPronounce} {
		q := models.Question{ID: 1, CorrectAnswer: "river", Type: qt}
		if got := EvaluateLocal(cfg, q, "River."); got != Correct {
			t.Errorf("EvaluateLocal() for %s = %v, want correct", qt, got)
		}
	}
}
