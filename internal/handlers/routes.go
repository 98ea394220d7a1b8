package handlers

import (
	"net/http"

	"vocabquiz/internal/security"
	"vocabquiz/internal/service"

	"github.com/go-chi/cors"
)

// RouterConfig carries what NewRouter needs to wire the API
type RouterConfig struct {
	AuthService  *service.AuthService
	Quiz         *service.QuizService
	LoginLimiter *security.RateLimiter
	StaticDir    string
	CORSOrigins  []string
}

// NewRouter registers every route and wraps the mux with CORS and request logging
func NewRouter(rc RouterConfig) http.Handler {
	middleware := NewMiddleware(rc.AuthService)
	authHandler := NewAuthHandler(rc.AuthService)
	questionHandler := NewQuestionHandler(rc.Quiz)
	gameHandler := NewGameHandler(rc.Quiz)
	socket := NewQuizSocket(rc.Quiz, rc.CORSOrigins)

	limit := func(h http.HandlerFunc) http.Handler {
		if rc.LoginLimiter == nil {
			return h
		}
		return rc.LoginLimiter.Middleware(h)
	}

	mux := http.NewServeMux()

	// Static files, including generated audio
	if rc.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(rc.StaticDir))))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": rc.Quiz.ActiveSessions()})
	})

	// Accounts
	mux.Handle("POST /users/register", limit(authHandler.Register))
	mux.Handle("POST /users/login", limit(authHandler.Login))

	// Questions
	mux.HandleFunc("GET /question/allByLessonID", middleware.RequireAuth(questionHandler.AllByLessonID))
	mux.HandleFunc("GET /question/fromLibrary", middleware.RequireAuth(questionHandler.FromLibrary))
	mux.HandleFunc("POST /question/checkAnswer", middleware.RequireAuth(questionHandler.CheckAnswer))
	mux.HandleFunc("POST /library/add", middleware.RequireAuth(questionHandler.AddToLibrary))

	// Mini-game
	mux.HandleFunc("GET /api/game/random-questions", middleware.RequireAuth(questionHandler.RandomQuestions))
	mux.HandleFunc("POST /api/game/update-score", middleware.RequireAuth(gameHandler.UpdateScore))
	mux.HandleFunc("GET /api/game/leaderboard", gameHandler.Leaderboard)
	mux.HandleFunc("GET /api/game/best", middleware.RequireAuth(gameHandler.Best))
	mux.HandleFunc("GET /api/game/results/{id}", middleware.RequireAuth(gameHandler.Result))
	mux.HandleFunc("GET /api/game/sessions/{id}", middleware.RequireAuth(gameHandler.Session))

	// Hosted sessions
	mux.HandleFunc("GET /ws/quiz", middleware.RequireAuth(socket.ServeHTTP))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: rc.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:         300,
	})

	return Logging(corsHandler(mux))
}
