package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/models"
	"vocabquiz/internal/service"
)

// GameHandler accepts finished sessions from remote clients and serves the leaderboard
type GameHandler struct {
	quiz *service.QuizService
}

// NewGameHandler creates a new game handler
func NewGameHandler(quiz *service.QuizService) *GameHandler {
	return &GameHandler{quiz: quiz}
}

// UpdateScore handles POST /api/game/update-score. The player is taken from
// the bearer token, never from the body.
func (h *GameHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var result assessment.Result
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&result); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", nil)
		return
	}
	result.UserID = player.UserID
	if result.Variant == "" {
		result.Variant = assessment.VariantMiniGame
	}

	if err := h.quiz.SubmitResult(r.Context(), result); err != nil {
		respondWithServiceError(w, "Error saving result", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leaderboard handles GET /api/game/leaderboard?limit=
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.quiz.GetLeaderboard(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, "Error loading leaderboard", err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// Result handles GET /api/game/results/{id} for the player's own results
func (h *GameHandler) Result(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", nil)
		return
	}
	res, err := h.quiz.GetResult(r.Context(), player.UserID, id)
	if err != nil {
		respondWithServiceError(w, "Error loading result", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Best handles GET /api/game/best
func (h *GameHandler) Best(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	best, err := h.quiz.GetUserBest(r.Context(), player.UserID)
	if err != nil {
		respondWithServiceError(w, "Error loading best score", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"userID": player.UserID, "bestScore": best})
}

// Session handles GET /api/game/sessions/{id}, a polling view of a hosted session
// for clients that cannot hold the websocket open
func (h *GameHandler) Session(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	hs, err := h.quiz.GetSession(r.PathValue("id"), player.UserID)
	if err != nil {
		respondWithServiceError(w, "Error loading session", err)
		return
	}
	respondJSON(w, http.StatusOK, statePayload(hs.ID, hs.Runner.Snapshot()))
}
