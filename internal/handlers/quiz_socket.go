package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/models"
	"vocabquiz/internal/service"
	"vocabquiz/internal/validation"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// SafeConn serializes writes; the pump and the read loop both send frames
type SafeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (sc *SafeConn) WriteJSON(v interface{}) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sc.conn.WriteJSON(v)
}

// QuizSocket runs hosted sessions over /ws/quiz
type QuizSocket struct {
	quiz     *service.QuizService
	upgrader websocket.Upgrader
}

// NewQuizSocket creates the websocket handler. Browser origins must appear in
// allowedOrigins unless it contains "*".
func NewQuizSocket(quiz *service.QuizService, allowedOrigins []string) *QuizSocket {
	return &QuizSocket{
		quiz: quiz,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeHTTP handles GET /ws/quiz. The route sits behind RequireAuth.
func (s *QuizSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	sconn := &SafeConn{conn: conn}
	var hosted *service.HostedSession
	defer func() {
		if hosted != nil {
			s.quiz.EndSession(hosted.ID)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error reading websocket: %v", err)
			}
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			sendError(sconn, "Malformed message")
			continue
		}

		if msg.Type == models.TypeQuit {
			return
		}
		hosted = s.processMessage(sconn, player, hosted, msg)
	}
}

// processMessage handles one client frame and returns the session bound to the connection
func (s *QuizSocket) processMessage(sconn *SafeConn, player *models.PlayerClaims, hosted *service.HostedSession, msg models.WSMessage) *service.HostedSession {
	switch msg.Type {
	case models.TypeInit:
		if hosted != nil {
			sendError(sconn, "Session already started")
			return hosted
		}
		var payload models.InitPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			sendError(sconn, "Malformed INIT payload")
			return nil
		}
		sel, err := assessment.SelectorFor(payload.Variant, player.UserID, payload.LessonID, payload.Count)
		if err != nil {
			sendError(sconn, err.Error())
			return nil
		}
		hs, err := s.quiz.StartSession(player.UserID, payload.Variant, sel)
		if err != nil {
			log.Printf("Error starting session for user %d: %v", player.UserID, err)
			sendError(sconn, "Could not start session")
			return nil
		}
		go pump(sconn, hs)
		return hs

	case models.TypeAnswer:
		if hosted == nil {
			sendError(sconn, "No active session")
			return nil
		}
		var payload models.AnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			sendError(sconn, "Malformed ANSWER payload")
			return hosted
		}
		if err := validation.ValidateAnswer(payload.Answer); err != nil {
			sendError(sconn, err.Error())
			return hosted
		}
		hosted.Runner.Submit(payload.Token, payload.Answer)
		return hosted

	default:
		log.Printf("Unknown websocket message type: %s", msg.Type)
		sendError(sconn, "Unknown message type")
		return hosted
	}
}

// pump forwards session updates until the runner stops
func pump(sconn *SafeConn, hs *service.HostedSession) {
	prev := assessment.NewState(hs.Runner.Config(), hs.UserID)
	for st := range hs.Runner.Updates() {
		for _, frame := range stateFrames(hs.ID, prev, st) {
			if err := sconn.WriteJSON(frame); err != nil {
				log.Printf("Error writing to session %s: %v", hs.ID, err)
				return
			}
		}
		prev = st
	}
}

// stateFrames returns the frames that tell a client how prev became next
func stateFrames(sessionID string, prev, next assessment.State) []models.WSMessage {
	switch {
	case next.Status == assessment.StatusSetupFailed:
		if prev.Status == assessment.StatusSetupFailed {
			return nil
		}
		return []models.WSMessage{frame(models.TypeError, models.ErrorPayload{Message: errMessage(next.Err)})}

	case next.Status.Terminal():
		if prev.Status.Terminal() {
			return nil
		}
		return []models.WSMessage{frame(models.TypeGameOver, models.GameOverPayload{
			Status:     next.Status.String(),
			Score:      next.Score,
			WrongCount: next.WrongCount,
			Total:      len(next.Questions),
			Answers:    next.AnswerLog,
		})}

	case next.Status != assessment.StatusActive:
		return nil
	}

	var frames []models.WSMessage
	if next.Err != nil && next.Err != prev.Err {
		frames = append(frames, frame(models.TypeVerdictError, models.ErrorPayload{Message: errMessage(next.Err)}))
	}

	changed := prev.Status != next.Status ||
		prev.Token != next.Token ||
		prev.AudioRef != next.AudioRef ||
		prev.AwaitingVerdict() != next.AwaitingVerdict()
	switch {
	case changed || len(frames) > 0:
		frames = append(frames, frame(models.TypeState, statePayload(sessionID, next)))
	case prev.TimeLeft() != next.TimeLeft():
		frames = append(frames, frame(models.TypeTick, models.TickPayload{Token: next.Token, TimeRemaining: next.TimeLeft()}))
	}
	return frames
}

func statePayload(sessionID string, s assessment.State) models.StatePayload {
	p := models.StatePayload{
		SessionID:       sessionID,
		Status:          s.Status.String(),
		Token:           s.Token,
		Index:           s.CurrentIndex,
		Total:           len(s.Questions),
		TimeRemaining:   s.TimeLeft(),
		Score:           s.Score,
		WrongCount:      s.WrongCount,
		WrongLimit:      s.Config.WrongLimit,
		AwaitingVerdict: s.AwaitingVerdict(),
	}
	if q, ok := s.Current(); ok {
		p.Question = &models.QuestionView{ID: q.ID, Text: q.Text, Type: q.Type, Audio: s.AudioRef}
	}
	return p
}

func frame(msgType string, payload any) models.WSMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding %s payload: %v", msgType, err)
	}
	return models.WSMessage{Type: msgType, Payload: data}
}

func sendError(sconn *SafeConn, message string) {
	if err := sconn.WriteJSON(frame(models.TypeError, models.ErrorPayload{Message: message})); err != nil {
		log.Printf("Error writing websocket error frame: %v", err)
	}
}

// errMessage hides wrapped transport detail from the player
func errMessage(err error) string {
	switch {
	case errors.Is(err, assessment.ErrNoQuestions):
		return "No questions available"
	case errors.Is(err, assessment.ErrSetupFailure):
		return "Could not load questions"
	case errors.Is(err, assessment.ErrAdjudicationFailure):
		return "Could not check your answer, please try again"
	case err == nil:
		return ""
	default:
		return "Something went wrong"
	}
}
