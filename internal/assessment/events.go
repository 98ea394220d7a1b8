package assessment

import "vocabquiz/internal/models"

// Event is an input delivered to Step.
type Event interface {
	eventName() string
}

// QuestionsLoaded carries the question set returned by the source.
type QuestionsLoaded struct {
	Questions []models.Question
}

// LoadFailed reports that the question set could not be retrieved.
type LoadFailed struct {
	Err error
}

// AnswerSubmitted is a user submission for the question identified by Token.
type AnswerSubmitted struct {
	Token  uint64
	Answer string
}

// TimerTicked is one elapsed second from the countdown started for Token.
type TimerTicked struct {
	Token uint64
}

// VerdictReceived is a delegated verdict for the submission made under Token.
type VerdictReceived struct {
	Token   uint64
	Correct bool
}

// AdjudicationFailed reports that the delegated check for Token did not complete.
type AdjudicationFailed struct {
	Token uint64
	Err   error
}

// AudioReady delivers the audio reference produced for the question under Token.
type AudioReady struct {
	Token uint64
	Ref   string
}

func (QuestionsLoaded) eventName() string    { return "questions_loaded" }
func (LoadFailed) eventName() string         { return "load_failed" }
func (AnswerSubmitted) eventName() string    { return "answer_submitted" }
func (TimerTicked) eventName() string        { return "timer_ticked" }
func (VerdictReceived) eventName() string    { return "verdict_received" }
func (AdjudicationFailed) eventName() string { return "adjudication_failed" }
func (AudioReady) eventName() string         { return "audio_ready" }

// Effect is an instruction produced by Step for the runner to carry out.
type Effect interface {
	effectName() string
}

// StartTimer replaces the active countdown with one bound to Token.
type StartTimer struct {
	Token   uint64
	Seconds int
}

// StopTimer cancels the active countdown.
type StopTimer struct{}

// RequestVerdict asks the adjudicator about a submission.
type RequestVerdict struct {
	Token      uint64
	QuestionID int64
	Answer     string
}

// RequestAudio asks the speaker to voice Text for the question under Token.
type RequestAudio struct {
	Token uint64
	Text  string
}

// EmitResult hands the terminal summary to the result emitter.
type EmitResult struct {
	Result Result
}

// Surface reports an error the user can act on (reload or resubmit).
type Surface struct {
	Err error
}

// Discard records that an event arrived for a question the session already left.
type Discard struct {
	Event string
	Token uint64
}

func (StartTimer) effectName() string     { return "start_timer" }
func (StopTimer) effectName() string      { return "stop_timer" }
func (RequestVerdict) effectName() string { return "request_verdict" }
func (RequestAudio) effectName() string   { return "request_audio" }
func (EmitResult) effectName() string     { return "emit_result" }
func (Surface) effectName() string        { return "surface" }
func (Discard) effectName() string        { return "discard" }
