package assessment

import (
	"fmt"
	"strings"

	"vocabquiz/internal/models"
)

// Status is the lifecycle position of a session.
type Status int

const (
	StatusLoading Status = iota
	StatusActive
	StatusCompleted
	StatusFailed
	// StatusSetupFailed is a display state: the session never started scoring.
	StatusSetupFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSetupFailed:
		return "setup_failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name. Only the terminal statuses and "active"
// are accepted from outside the engine.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "completed":
		*s = StatusCompleted
	case "failed":
		*s = StatusFailed
	case "active":
		*s = StatusActive
	default:
		return fmt.Errorf("unknown status: %q", text)
	}
	return nil
}

// Terminal reports whether the session has produced its result.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PendingVerdict is a delegated submission waiting for the adjudicator.
type PendingVerdict struct {
	Token  uint64
	Answer string
	// Expired is set when the countdown ran out while waiting.
	Expired bool
}

// State is one session. Step never mutates its input; AnswerLog is copied on write,
// so a State value can be shared with readers once published.
type State struct {
	Config       Config
	UserID       int64
	Questions    []models.Question
	CurrentIndex int
	Score        int
	WrongCount   int
	Timer        Countdown
	Status       Status
	AnswerLog    map[int64]string
	// Token identifies the active question. It changes on every question transition
	// and on entering a terminal state.
	Token    uint64
	Pending  *PendingVerdict
	AudioRef string
	// Discarded counts stale events that were dropped.
	Discarded int
	Emitted   bool
	// Err is the last error surfaced for user action.
	Err error
}

// NewState returns a session waiting for its question set.
func NewState(cfg Config, userID int64) State {
	return State{
		Config:    cfg,
		UserID:    userID,
		Status:    StatusLoading,
		AnswerLog: map[int64]string{},
	}
}

// Current returns the active question.
func (s State) Current() (models.Question, bool) {
	if s.Status != StatusActive || s.CurrentIndex >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// TimeLeft is the remaining seconds on the active question, zero when untimed.
func (s State) TimeLeft() int {
	if !s.Config.Timed() {
		return 0
	}
	return s.Timer.Remaining
}

// AwaitingVerdict reports whether a delegated submission is outstanding.
func (s State) AwaitingVerdict() bool {
	return s.Pending != nil
}

// Step applies one event and returns the next state and the effects to run.
func Step(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case QuestionsLoaded:
		return s.loaded(ev.Questions)
	case LoadFailed:
		if s.Status != StatusLoading {
			return s.discard(ev, 0)
		}
		s.Status = StatusSetupFailed
		s.Err = fmt.Errorf("%w: %w", ErrSetupFailure, ev.Err)
		return s, []Effect{Surface{Err: s.Err}}
	case AnswerSubmitted:
		return s.submit(ev)
	case TimerTicked:
		return s.tick(ev)
	case VerdictReceived:
		if !s.pendingFor(ev.Token) {
			return s.discard(ev, ev.Token)
		}
		answer := s.Pending.Answer
		s.Pending = nil
		return s.accept(answer, VerdictOf(ev.Correct))
	case AdjudicationFailed:
		if !s.pendingFor(ev.Token) {
			return s.discard(ev, ev.Token)
		}
		expired := s.Pending.Expired
		s.Pending = nil
		err := fmt.Errorf("%w: %w", ErrAdjudicationFailure, ev.Err)
		if expired {
			// No time is left to resubmit, so the expiry stands as an empty answer.
			next, effects := s.accept("", Incorrect)
			next.Err = err
			return next, append(effects, Surface{Err: err})
		}
		s.Err = err
		return s, []Effect{Surface{Err: err}}
	case AudioReady:
		if s.Status != StatusActive || ev.Token != s.Token {
			return s.discard(ev, ev.Token)
		}
		s.AudioRef = ev.Ref
		return s, nil
	default:
		return s, nil
	}
}

func (s State) loaded(questions []models.Question) (State, []Effect) {
	if s.Status != StatusLoading {
		return s.discard(QuestionsLoaded{}, 0)
	}
	if len(questions) == 0 {
		s.Status = StatusSetupFailed
		s.Err = fmt.Errorf("%w: %w", ErrSetupFailure, ErrNoQuestions)
		return s, []Effect{Surface{Err: s.Err}}
	}
	s.Questions = questions
	s.Status = StatusActive
	return s.begin(0, nil)
}

func (s State) submit(ev AnswerSubmitted) (State, []Effect) {
	if s.Status != StatusActive || ev.Token != s.Token || s.Pending != nil {
		return s.discard(ev, ev.Token)
	}
	answer := strings.TrimSpace(ev.Answer)
	q := s.Questions[s.CurrentIndex]
	if s.Config.Mode == ModeLocal {
		return s.accept(answer, EvaluateLocal(s.Config, q, answer))
	}
	s.Pending = &PendingVerdict{Token: s.Token, Answer: answer}
	s.Err = nil
	return s, []Effect{RequestVerdict{Token: s.Token, QuestionID: q.ID, Answer: answer}}
}

func (s State) tick(ev TimerTicked) (State, []Effect) {
	if s.Status != StatusActive {
		return s.discard(ev, ev.Token)
	}
	timer, outcome := s.Timer.Tick(ev.Token)
	switch outcome {
	case TickStale:
		return s.discard(ev, ev.Token)
	case TickElapsed:
		s.Timer = timer
		return s, nil
	}
	s.Timer = timer
	if s.Pending != nil {
		p := *s.Pending
		p.Expired = true
		s.Pending = &p
		return s, nil
	}
	return s.accept("", Incorrect)
}

// accept records a definitive verdict for the active question and moves on.
func (s State) accept(answer string, v Verdict) (State, []Effect) {
	q := s.Questions[s.CurrentIndex]
	s.AnswerLog = withAnswer(s.AnswerLog, q.ID, answer)
	if v == Correct {
		s.Score++
	} else {
		s.WrongCount++
	}
	s.Timer = s.Timer.Cancel()
	s.Err = nil
	effects := []Effect{StopTimer{}}

	if s.Config.WrongLimit > 0 && s.WrongCount >= s.Config.WrongLimit {
		return s.finish(StatusFailed, effects)
	}
	if s.CurrentIndex+1 >= len(s.Questions) {
		s.CurrentIndex = len(s.Questions)
		return s.finish(StatusCompleted, effects)
	}
	return s.begin(s.CurrentIndex+1, effects)
}

func (s State) begin(index int, effects []Effect) (State, []Effect) {
	s.CurrentIndex = index
	s.Token++
	s.AudioRef = ""
	if s.Config.Timed() {
		s.Timer = s.Timer.Start(s.Token, s.Config.TimeLimitSeconds)
		effects = append(effects, StartTimer{Token: s.Token, Seconds: s.Config.TimeLimitSeconds})
	} else {
		s.Timer = Countdown{Token: s.Token}
	}
	if q := s.Questions[index]; q.Type.HasAudio() {
		effects = append(effects, RequestAudio{Token: s.Token, Text: q.CorrectAnswer})
	}
	return s, effects
}

func (s State) finish(status Status, effects []Effect) (State, []Effect) {
	s.Status = status
	s.Token++
	s.Pending = nil
	if s.Emitted {
		return s, effects
	}
	s.Emitted = true
	return s, append(effects, EmitResult{Result: s.Result()})
}

func (s State) discard(ev Event, token uint64) (State, []Effect) {
	s.Discarded++
	return s, []Effect{Discard{Event: ev.eventName(), Token: token}}
}

func (s State) pendingFor(token uint64) bool {
	return s.Status == StatusActive && s.Pending != nil && s.Pending.Token == token
}

func withAnswer(log map[int64]string, questionID int64, answer string) map[int64]string {
	next := make(map[int64]string, len(log)+1)
	for k, v := range log {
		next[k] = v
	}
	next[questionID] = answer
	return next
}
