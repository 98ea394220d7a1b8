package assessment

import "fmt"

// Mode selects where correctness is decided.
type Mode int

const (
	// ModeLocal compares normalized strings in-process.
	ModeLocal Mode = iota
	// ModeDelegated asks an Adjudicator and waits for its verdict.
	ModeDelegated
)

func (m Mode) String() string {
	if m == ModeDelegated {
		return "delegated"
	}
	return "local"
}

// Config parameterizes one assessment variant.
type Config struct {
	// Variant names the call site; it is carried into the emitted result.
	Variant string
	// TimeLimitSeconds is the per-question limit. Zero means untimed.
	TimeLimitSeconds int
	// WrongLimit is the wrong-answer budget. Zero means unbounded.
	WrongLimit int
	Mode       Mode
	// AnswerPolicy normalizes the submitted answer.
	AnswerPolicy NormalizationPolicy
	// KeyPolicy normalizes the stored correct answer.
	KeyPolicy NormalizationPolicy
}

// Timed reports whether questions run against a countdown.
func (c Config) Timed() bool {
	return c.TimeLimitSeconds > 0
}

// Validate checks the config for impossible values.
func (c Config) Validate() error {
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time limit must not be negative: %d", c.TimeLimitSeconds)
	}
	if c.WrongLimit < 0 {
		return fmt.Errorf("wrong limit must not be negative: %d", c.WrongLimit)
	}
	return nil
}

const (
	VariantLessonQuiz  = "lesson_quiz"
	VariantLibraryQuiz = "library_quiz"
	VariantMiniGame    = "mini_game"

	DefaultMiniGameTimeLimit  = 20
	DefaultMiniGameWrongLimit = 2
	DefaultRandomPoolSize     = 10
)

// LessonQuiz is untimed, has no wrong budget and asks the backend for verdicts.
func LessonQuiz() Config {
	return Config{
		Variant:      VariantLessonQuiz,
		Mode:         ModeDelegated,
		AnswerPolicy: StripTrailingPunctuation,
		KeyPolicy:    StripTrailingPunctuation,
	}
}

// LibraryQuiz is untimed and local. Punctuation is stripped from the answer only.
func LibraryQuiz() Config {
	return Config{
		Variant:      VariantLibraryQuiz,
		Mode:         ModeLocal,
		AnswerPolicy: StripTrailingPunctuation,
		KeyPolicy:    CaseFoldOnly,
	}
}

// MiniGame is the timed game with a wrong-answer budget.
func MiniGame(timeLimit, wrongLimit int) Config {
	return Config{
		Variant:          VariantMiniGame,
		TimeLimitSeconds: timeLimit,
		WrongLimit:       wrongLimit,
		Mode:             ModeLocal,
		AnswerPolicy:     CaseFoldOnly,
		KeyPolicy:        CaseFoldOnly,
	}
}

// MiniGameWithPolicy is MiniGame with answers and keys normalized under the named
// policy. An empty name keeps the default.
func MiniGameWithPolicy(timeLimit, wrongLimit int, policy string) (Config, error) {
	cfg := MiniGame(timeLimit, wrongLimit)
	if policy == "" {
		return cfg, nil
	}
	p, ok := ParseNormalizationPolicy(policy)
	if !ok {
		return Config{}, fmt.Errorf("unknown normalization policy: %s", policy)
	}
	cfg.AnswerPolicy, cfg.KeyPolicy = p, p
	return cfg, nil
}

// Preset returns the config for a named variant.
func Preset(variant string) (Config, error) {
	switch variant {
	case VariantLessonQuiz:
		return LessonQuiz(), nil
	case VariantLibraryQuiz:
		return LibraryQuiz(), nil
	case VariantMiniGame:
		return MiniGame(DefaultMiniGameTimeLimit, DefaultMiniGameWrongLimit), nil
	default:
		return Config{}, fmt.Errorf("unknown variant: %s", variant)
	}
}
