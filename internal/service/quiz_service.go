package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/models"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/security"
	"vocabquiz/internal/validation"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidResult    = errors.New("invalid result")
	ErrResultNotFound   = errors.New("result not found")
)

// QuizSettings tune the mini-game preset
type QuizSettings struct {
	MiniGameTimeLimit  int
	MiniGameWrongLimit int
	RandomPoolSize     int
	// MiniGamePolicy overrides how mini-game answers and keys are normalized.
	// Empty keeps the preset.
	MiniGamePolicy string
}

// HostedSession is a quiz run on the server on behalf of a connected client
type HostedSession struct {
	ID        string
	UserID    int64
	Variant   string
	StartedAt time.Time
	Runner    *assessment.Runner
}

// QuizService backs assessment sessions with the database. It is the question
// source, the adjudicator and the result sink for both hosted and remote sessions.
type QuizService struct {
	questions *repository.QuestionRepository
	results   *repository.ResultRepository
	users     *repository.UserRepository
	email     *EmailService
	speaker   assessment.Speaker
	settings  QuizSettings
	debug     bool

	mu       sync.RWMutex
	sessions map[string]*HostedSession
}

// NewQuizService creates a new quiz service. email and speaker may be nil.
func NewQuizService(
	questions *repository.QuestionRepository,
	results *repository.ResultRepository,
	users *repository.UserRepository,
	email *EmailService,
	speaker assessment.Speaker,
	settings QuizSettings,
	debug bool,
) *QuizService {
	return &QuizService{
		questions: questions,
		results:   results,
		users:     users,
		email:     email,
		speaker:   speaker,
		settings:  settings,
		debug:     debug,
		sessions:  make(map[string]*HostedSession),
	}
}

// VariantConfig returns the preset for variant with the configured mini-game limits
func (s *QuizService) VariantConfig(variant string) (assessment.Config, error) {
	if variant != assessment.VariantMiniGame {
		return assessment.Preset(variant)
	}
	return assessment.MiniGameWithPolicy(s.settings.MiniGameTimeLimit, s.settings.MiniGameWrongLimit, s.settings.MiniGamePolicy)
}

// PoolSize returns the number of questions a random selection draws
func (s *QuizService) PoolSize() int {
	if s.settings.RandomPoolSize <= 0 {
		return assessment.DefaultRandomPoolSize
	}
	return s.settings.RandomPoolSize
}

// LoadQuestions returns the question set sel names
func (s *QuizService) LoadQuestions(ctx context.Context, sel assessment.Selector) ([]models.Question, error) {
	switch sel.Kind {
	case assessment.SelectLesson:
		return s.questions.GetByLesson(ctx, sel.LessonID)
	case assessment.SelectLibrary:
		return s.questions.GetFromLibrary(ctx, sel.UserID)
	case assessment.SelectRandom:
		count := sel.PoolSize
		if count <= 0 {
			count = s.PoolSize()
		}
		if err := validation.ValidateQuestionCount(count); err != nil {
			return nil, err
		}
		return s.questions.GetRandom(ctx, count)
	default:
		return nil, fmt.Errorf("unknown selector: %s", sel)
	}
}

// CheckAnswer adjudicates an answer against the stored key and records the check
func (s *QuizService) CheckAnswer(ctx context.Context, userID, questionID int64, answer string) (bool, error) {
	if err := validation.ValidateAnswer(answer); err != nil {
		return false, err
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return false, err
	}
	if q == nil {
		return false, ErrQuestionNotFound
	}

	policy := assessment.StripTrailingPunctuation
	correct := assessment.Normalize(policy, answer) == assessment.Normalize(policy, q.CorrectAnswer)

	if err := s.questions.RecordCheck(ctx, userID, questionID, answer, correct); err != nil {
		// The verdict stands even if history could not be written
		log.Printf("Error recording answer check for user %d: %v", userID, err)
	}
	if s.debug {
		log.Printf("[DEBUG] CheckAnswer: user=%d question=%d correct=%v", userID, questionID, correct)
	}
	return correct, nil
}

// SubmitResult stores a finished session and mails the player a report
func (s *QuizService) SubmitResult(ctx context.Context, r assessment.Result) error {
	if !r.Status.Terminal() {
		return fmt.Errorf("%w: status %s is not terminal", ErrInvalidResult, r.Status)
	}
	if r.Score < 0 || r.WrongCount < 0 {
		return fmt.Errorf("%w: negative counts", ErrInvalidResult)
	}

	gr := &models.GameResult{
		UserID:     r.UserID,
		Variant:    r.Variant,
		Score:      r.Score,
		WrongCount: r.WrongCount,
		Total:      r.Total,
		Status:     r.Status.String(),
		Answers:    r.Answers,
	}
	if err := s.results.SaveResult(ctx, gr); err != nil {
		return err
	}
	log.Printf("Result saved: user=%d variant=%s status=%s score=%d", r.UserID, r.Variant, r.Status, r.Score)

	if s.email.IsEnabled() {
		user, err := s.users.GetUserByID(ctx, r.UserID)
		if err != nil {
			log.Printf("Error loading user %d for score report: %v", r.UserID, err)
			return nil
		}
		if user != nil && user.Email != "" {
			if err := s.email.SendScoreReport(ctx, user.Email, user.Name, r); err != nil {
				log.Printf("Error sending score report to user %d: %v", r.UserID, err)
			}
		}
	}
	return nil
}

// AddToLibrary saves a question to the player's review list
func (s *QuizService) AddToLibrary(ctx context.Context, userID, questionID int64) error {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuestionNotFound
	}
	return s.questions.AddToLibrary(ctx, userID, questionID)
}

// GetResult returns a stored result owned by userID
func (s *QuizService) GetResult(ctx context.Context, userID, id int64) (*models.GameResult, error) {
	res, err := s.results.GetResult(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil || res.UserID != userID {
		return nil, ErrResultNotFound
	}
	return res, nil
}

// GetUserBest returns the player's highest score across all variants
func (s *QuizService) GetUserBest(ctx context.Context, userID int64) (int, error) {
	return s.results.GetUserBest(ctx, userID)
}

// GetLeaderboard returns the top players by best score
func (s *QuizService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.results.GetLeaderboard(ctx, limit)
}

// StartSession creates a server-hosted session for userID and starts loading its questions
func (s *QuizService) StartSession(userID int64, variant string, sel assessment.Selector, opts ...assessment.Option) (*HostedSession, error) {
	cfg, err := s.VariantConfig(variant)
	if err != nil {
		return nil, err
	}

	runnerOpts := []assessment.Option{
		assessment.WithAdjudicator(s),
		assessment.WithResultSink(s),
		assessment.WithDebug(s.debug),
	}
	if s.speaker != nil {
		runnerOpts = append(runnerOpts, assessment.WithSpeaker(s.speaker))
	}
	runner, err := assessment.NewRunner(cfg, userID, s, append(runnerOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	hs := &HostedSession{
		ID:        security.GenerateSessionID(),
		UserID:    userID,
		Variant:   variant,
		StartedAt: time.Now(),
		Runner:    runner,
	}

	s.mu.Lock()
	s.sessions[hs.ID] = hs
	s.mu.Unlock()

	runner.Start(context.Background(), sel)
	log.Printf("Session started: id=%s user=%d variant=%s selector=%s", hs.ID, userID, variant, sel)
	return hs, nil
}

// GetSession returns a hosted session owned by userID
func (s *QuizService) GetSession(id string, userID int64) (*HostedSession, error) {
	if !security.IsValidSessionID(id) {
		return nil, ErrSessionNotFound
	}
	s.mu.RLock()
	hs, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || hs.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return hs, nil
}

// EndSession stops a hosted session and forgets it. Ending twice is a no-op.
func (s *QuizService) EndSession(id string) {
	s.mu.Lock()
	hs, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		hs.Runner.Close()
		log.Printf("Session ended: id=%s user=%d", id, hs.UserID)
	}
}

// ActiveSessions returns the number of hosted sessions
func (s *QuizService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown ends every hosted session
func (s *QuizService) Shutdown() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.EndSession(id)
	}
}
