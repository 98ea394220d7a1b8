package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vocabquiz/internal/models"
)

type fakeSource struct {
	questions []models.Question
	err       error
}

func (f fakeSource) LoadQuestions(_ context.Context, _ Selector) ([]models.Question, error) {
	return f.questions, f.err
}

type fakeAdjudicator struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeAdjudicator) CheckAnswer(_ context.Context, _ int64, _ int64, answer string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return false, errors.New("service unavailable")
	}
	return answer == "right", nil
}

type fakeSpeaker struct{}

func (fakeSpeaker) Speak(_ context.Context, text string) (string, error) {
	return "/static/audio/" + text + ".mp3", nil
}

// manualClock hands ticks to the test instead of the wall clock.
type manualClock struct {
	mu    sync.Mutex
	token uint64
	tick  func(uint64)
}

func (c *manualClock) Start(token uint64, tick func(uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.tick = token, tick
}

func (c *manualClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = nil
}

func (c *manualClock) fire() bool {
	c.mu.Lock()
	tick, token := c.tick, c.token
	c.mu.Unlock()
	if tick == nil {
		return false
	}
	tick(token)
	return true
}

func waitFor(t *testing.T, r *Runner, what string, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := r.Snapshot(); cond(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; last state %+v", what, r.Snapshot())
	return State{}
}

func TestNewRunnerValidation(t *testing.T) {
	src := fakeSource{}

	if _, err := NewRunner(Config{TimeLimitSeconds: -1}, 1, src); err == nil {
		t.Error("expected error for negative time limit")
	}
	if _, err := NewRunner(LibraryQuiz(), 1, nil); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := NewRunner(LessonQuiz(), 1, src); err == nil {
		t.Error("expected error for delegated mode without adjudicator")
	}
	if _, err := NewRunner(LessonQuiz(), 1, src, WithAdjudicator(&fakeAdjudicator{})); err != nil {
		t.Errorf("NewRunner() error = %v", err)
	}
}

func TestRunnerLocalSession(t *testing.T) {
	sink := &recordingSink{}
	r, err := NewRunner(LibraryQuiz(), 9, fakeSource{questions: questions("one", "two")},
		WithResultSink(sink), WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()
	r.Start(context.Background(), Selector{Kind: SelectLibrary, UserID: 9})

	s := waitFor(t, r, "active", func(s State) bool { return s.Status == StatusActive })
	r.Submit(s.Token, "One.")
	s = waitFor(t, r, "second question", func(s State) bool { return s.CurrentIndex == 1 })
	r.Submit(s.Token, "three")

	s = waitFor(t, r, "completion", func(s State) bool { return s.Status == StatusCompleted })
	if s.Score != 1 || s.WrongCount != 1 {
		t.Errorf("score=%d wrong=%d, want 1 and 1", s.Score, s.WrongCount)
	}
	deadline := time.Now().Add(2 * time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.count() != 1 {
		t.Fatalf("sink received %d results, want 1", sink.count())
	}
	if got := sink.results[0]; got.UserID != 9 || got.Status != StatusCompleted {
		t.Errorf("result = %+v", got)
	}
}

func TestRunnerTimeoutWithManualClock(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	r, err := NewRunner(MiniGame(3, 1), 1, fakeSource{questions: questions("a", "b")},
		WithResultSink(sink), WithClock(clock))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()
	r.Start(context.Background(), Selector{Kind: SelectRandom, PoolSize: 2})

	waitFor(t, r, "active", func(s State) bool { return s.Status == StatusActive })
	for i := 0; i < 3; i++ {
		if !clock.fire() {
			t.Fatalf("clock not running at tick %d", i+1)
		}
		want := 2 - i
		if i < 2 {
			waitFor(t, r, "tick", func(s State) bool { return s.TimeLeft() == want })
		}
	}

	s := waitFor(t, r, "failure", func(s State) bool { return s.Status == StatusFailed })
	if s.WrongCount != 1 || s.AnswerLog[1] != "" {
		t.Errorf("wrong=%d log=%v", s.WrongCount, s.AnswerLog)
	}
}

func TestRunnerDelegatedRetryAfterFailure(t *testing.T) {
	adj := &fakeAdjudicator{fail: true}
	r, err := NewRunner(LessonQuiz(), 1, fakeSource{questions: questions("right")},
		WithAdjudicator(adj), WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()
	r.Start(context.Background(), Selector{Kind: SelectLesson, LessonID: 3})

	s := waitFor(t, r, "active", func(s State) bool { return s.Status == StatusActive })
	r.Submit(s.Token, "right")
	s = waitFor(t, r, "adjudication error", func(s State) bool { return errors.Is(s.Err, ErrAdjudicationFailure) })
	if s.Score != 0 || s.CurrentIndex != 0 || s.AwaitingVerdict() {
		t.Fatalf("failure mutated state: %+v", s)
	}

	adj.mu.Lock()
	adj.fail = false
	adj.mu.Unlock()
	r.Submit(s.Token, "right")

	s = waitFor(t, r, "completion", func(s State) bool { return s.Status == StatusCompleted })
	if s.Score != 1 {
		t.Errorf("Score = %d, want 1", s.Score)
	}
	if adj.calls != 2 {
		t.Errorf("adjudicator called %d times, want 2", adj.calls)
	}
}

func TestRunnerSetupFailure(t *testing.T) {
	sink := &recordingSink{}
	r, err := NewRunner(LibraryQuiz(), 1, fakeSource{err: errors.New("db down")},
		WithResultSink(sink), WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()
	r.Start(context.Background(), Selector{Kind: SelectLibrary})

	s := waitFor(t, r, "setup failure", func(s State) bool { return s.Status == StatusSetupFailed })
	if !errors.Is(s.Err, ErrSetupFailure) {
		t.Errorf("Err = %v", s.Err)
	}
	if sink.count() != 0 {
		t.Error("setup failure emitted a result")
	}
}

func TestRunnerAudio(t *testing.T) {
	qs := []models.Question{{ID: 1, CorrectAnswer: "river", Type: models.QuestionPronounce}}
	r, err := NewRunner(LibraryQuiz(), 1, fakeSource{questions: qs},
		WithSpeaker(fakeSpeaker{}), WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()
	r.Start(context.Background(), Selector{Kind: SelectLibrary})

	s := waitFor(t, r, "audio", func(s State) bool { return s.AudioRef != "" })
	if s.AudioRef != "/static/audio/river.mp3" {
		t.Errorf("AudioRef = %q", s.AudioRef)
	}
}

func TestRunnerCloseMakesEventsInert(t *testing.T) {
	r, err := NewRunner(LibraryQuiz(), 1, fakeSource{questions: questions("a", "b")}, WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	r.Start(context.Background(), Selector{Kind: SelectLibrary})
	s := waitFor(t, r, "active", func(s State) bool { return s.Status == StatusActive })

	r.Close()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	if r.Submit(s.Token, "a") {
		t.Error("Submit after Close should report false")
	}
	if got := r.Snapshot(); got.CurrentIndex != 0 || got.Score != 0 {
		t.Errorf("state changed after close: %+v", got)
	}
	r.Close()
}

// gateClock holds the event loop inside StartTimer until released.
type gateClock struct {
	entered chan uint64
	release chan struct{}
}

func (c *gateClock) Start(token uint64, _ func(uint64)) {
	c.entered <- token
	<-c.release
}

func (c *gateClock) Stop() {}

func TestRunnerCloseDropsQueuedEvents(t *testing.T) {
	clock := &gateClock{entered: make(chan uint64, 1), release: make(chan struct{})}
	sink := &recordingSink{}
	r, err := NewRunner(MiniGame(20, 2), 1, fakeSource{questions: questions("a")},
		WithResultSink(sink), WithClock(clock))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	r.Start(context.Background(), Selector{Kind: SelectRandom, PoolSize: 1})

	var token uint64
	select {
	case token = <-clock.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never started")
	}
	if !r.Submit(token, "a") {
		t.Fatal("Submit before Close should be queued")
	}
	r.Close()
	close(clock.release)

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	if got := r.Snapshot(); got.Status != StatusActive || got.Score != 0 || len(got.AnswerLog) != 0 {
		t.Errorf("queued answer applied after close: %+v", got)
	}
	time.Sleep(50 * time.Millisecond)
	if sink.count() != 0 {
		t.Errorf("sink received %d results after close, want 0", sink.count())
	}
}

// gatedAdjudicator blocks each check until released.
type gatedAdjudicator struct {
	called  chan struct{}
	release chan struct{}
}

func (a *gatedAdjudicator) CheckAnswer(_ context.Context, _ int64, _ int64, _ string) (bool, error) {
	a.called <- struct{}{}
	<-a.release
	return true, nil
}

func TestRunnerVerdictAfterCloseIsInert(t *testing.T) {
	adj := &gatedAdjudicator{called: make(chan struct{}, 1), release: make(chan struct{})}
	sink := &recordingSink{}
	r, err := NewRunner(LessonQuiz(), 1, fakeSource{questions: questions("right")},
		WithAdjudicator(adj), WithResultSink(sink), WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	r.Start(context.Background(), Selector{Kind: SelectLesson, LessonID: 1})

	s := waitFor(t, r, "active", func(s State) bool { return s.Status == StatusActive })
	r.Submit(s.Token, "right")
	select {
	case <-adj.called:
	case <-time.After(2 * time.Second):
		t.Fatal("adjudicator never called")
	}
	waitFor(t, r, "awaiting verdict", func(s State) bool { return s.AwaitingVerdict() })

	r.Close()
	<-r.Done()
	close(adj.release)
	time.Sleep(50 * time.Millisecond)

	if got := r.Snapshot(); got.Status != StatusActive || got.Score != 0 || got.CurrentIndex != 0 {
		t.Errorf("verdict applied after close: %+v", got)
	}
	if sink.count() != 0 {
		t.Errorf("sink received %d results after close, want 0", sink.count())
	}
}

func TestRunnerCloseBeforeStart(t *testing.T) {
	r, err := NewRunner(LibraryQuiz(), 1, fakeSource{}, WithClock(&manualClock{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	r.Close()
	<-r.Done()
	if _, ok := <-r.Updates(); ok {
		t.Error("Updates should be closed")
	}
}

func TestSecondClockTicksWithToken(t *testing.T) {
	c := &SecondClock{interval: 10 * time.Millisecond}
	got := make(chan uint64, 1)
	c.Start(5, func(token uint64) {
		select {
		case got <- token:
		default:
		}
	})
	defer c.Stop()

	select {
	case token := <-got:
		if token != 5 {
			t.Errorf("tick token = %d, want 5", token)
		}
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}
}
