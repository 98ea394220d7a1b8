package assessment

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

const (
	eventBufferSize  = 32
	updateBufferSize = 8
	emitTimeout      = 15 * time.Second
	speakTimeout     = 10 * time.Second
)

// Option configures a Runner.
type Option func(*Runner)

// WithAdjudicator sets the collaborator used in delegated mode.
func WithAdjudicator(a Adjudicator) Option { return func(r *Runner) { r.adjudicator = a } }

// WithResultSink sets where the terminal result is delivered.
func WithResultSink(sink ResultSink) Option { return func(r *Runner) { r.emitter = NewEmitter(sink) } }

// WithSpeaker enables audio for listening and pronunciation questions.
func WithSpeaker(s Speaker) Option { return func(r *Runner) { r.speaker = s } }

// WithClock replaces the one-second wall clock.
func WithClock(c Clock) Option { return func(r *Runner) { r.clock = c } }

// WithDebug enables per-event logging.
func WithDebug(debug bool) Option { return func(r *Runner) { r.debug = debug } }

// Runner is the event loop for one session. All state changes happen on a single
// goroutine; timer ticks and network completions are posted to it as events.
type Runner struct {
	cfg         Config
	userID      int64
	source      QuestionSource
	adjudicator Adjudicator
	speaker     Speaker
	emitter     *Emitter
	clock       Clock
	debug       bool

	events  chan Event
	updates chan State
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	snapshot  State
	startOnce sync.Once
	closeOnce sync.Once
}

// NewRunner builds a runner for one session of cfg played by userID.
func NewRunner(cfg Config, userID int64, source QuestionSource, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("question source is required")
	}
	r := &Runner{
		cfg:      cfg,
		userID:   userID,
		source:   source,
		emitter:  NewEmitter(nil),
		events:   make(chan Event, eventBufferSize),
		updates:  make(chan State, updateBufferSize),
		done:     make(chan struct{}),
		snapshot: NewState(cfg, userID),
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(r)
	}
	if cfg.Mode == ModeDelegated && r.adjudicator == nil {
		return nil, errors.New("delegated mode requires an adjudicator")
	}
	if r.clock == nil {
		r.clock = NewSecondClock()
	}
	return r, nil
}

// Start loads the question set for sel and begins processing events. The session
// ends when ctx is cancelled or Close is called.
func (r *Runner) Start(ctx context.Context, sel Selector) {
	r.startOnce.Do(func() {
		context.AfterFunc(ctx, r.cancel)
		go r.loop(r.snapshot)
		go func() {
			questions, err := r.source.LoadQuestions(r.ctx, sel)
			if err != nil {
				r.post(LoadFailed{Err: err})
				return
			}
			r.post(QuestionsLoaded{Questions: questions})
		}()
	})
}

// Submit posts an answer for the question identified by token. It reports false
// when the session has been closed.
func (r *Runner) Submit(token uint64, answer string) bool {
	return r.post(AnswerSubmitted{Token: token, Answer: answer})
}

// Updates delivers state snapshots after every event. Slow readers only miss
// intermediate snapshots; the latest one is always kept. The channel is closed
// when the runner stops.
func (r *Runner) Updates() <-chan State {
	return r.updates
}

// Snapshot returns the most recent state.
func (r *Runner) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Config returns the variant configuration the session runs under.
func (r *Runner) Config() Config {
	return r.cfg
}

// UserID returns the player the session belongs to.
func (r *Runner) UserID() int64 {
	return r.userID
}

// Done is closed once the event loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Close stops the timer and the event loop. Responses still in flight are dropped
// when they arrive. Close does not wait for them.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		started := true
		r.startOnce.Do(func() { started = false })
		r.cancel()
		if !started {
			close(r.done)
			close(r.updates)
		}
		r.clock.Stop()
	})
}

func (r *Runner) post(ev Event) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}
	select {
	case r.events <- ev:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Runner) loop(state State) {
	defer close(r.done)
	defer close(r.updates)
	defer r.clock.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case ev := <-r.events:
			// Both cases may be ready after Close; queued events must stay inert.
			if r.ctx.Err() != nil {
				return
			}
			next, effects := Step(state, ev)
			state = next
			for _, eff := range effects {
				r.run(eff)
			}
			r.mu.Lock()
			r.snapshot = state
			r.mu.Unlock()
			r.publish(state)
		}
	}
}

func (r *Runner) publish(s State) {
	select {
	case r.updates <- s:
		return
	default:
	}
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- s:
	default:
	}
}

func (r *Runner) run(eff Effect) {
	if r.debug {
		log.Printf("[DEBUG] session effect: %s", eff.effectName())
	}
	switch e := eff.(type) {
	case StartTimer:
		r.clock.Start(e.Token, func(token uint64) {
			r.post(TimerTicked{Token: token})
		})
	case StopTimer:
		r.clock.Stop()
	case RequestVerdict:
		go func() {
			ok, err := r.adjudicator.CheckAnswer(r.ctx, r.userID, e.QuestionID, e.Answer)
			if err != nil {
				r.post(AdjudicationFailed{Token: e.Token, Err: err})
				return
			}
			r.post(VerdictReceived{Token: e.Token, Correct: ok})
		}()
	case RequestAudio:
		if r.speaker == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(r.ctx, speakTimeout)
			defer cancel()
			ref, err := r.speaker.Speak(ctx, e.Text)
			if err != nil {
				log.Printf("Audio unavailable for question: %v", err)
				return
			}
			r.post(AudioReady{Token: e.Token, Ref: ref})
		}()
	case EmitResult:
		// Delivery outlives Close so a finished result is not lost on teardown.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), emitTimeout)
		go func() {
			defer cancel()
			fired, err := r.emitter.Emit(ctx, e.Result)
			if err != nil {
				log.Printf("Error submitting result for user %d: %v", e.Result.UserID, err)
				return
			}
			if fired && r.debug {
				log.Printf("[DEBUG] result submitted: user=%d status=%s score=%d", e.Result.UserID, e.Result.Status, e.Result.Score)
			}
		}()
	case Surface:
		log.Printf("Session error for user %d: %v", r.userID, e.Err)
	case Discard:
		log.Printf("Discarded stale %s event (token %d)", e.Event, e.Token)
	}
}
