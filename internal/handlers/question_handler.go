package handlers

import (
	"net/http"
	"strconv"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/models"
	"vocabquiz/internal/service"
)

// QuestionHandler serves question sets, answer checks and the player's library
type QuestionHandler struct {
	quiz *service.QuizService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(quiz *service.QuizService) *QuestionHandler {
	return &QuestionHandler{quiz: quiz}
}

// AllByLessonID handles GET /question/allByLessonID?lessonID=
func (h *QuestionHandler) AllByLessonID(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.ParseInt(r.URL.Query().Get("lessonID"), 10, 64)
	if err != nil || lessonID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}
	h.load(w, r, assessment.Selector{Kind: assessment.SelectLesson, LessonID: lessonID})
}

// FromLibrary handles GET /question/fromLibrary
func (h *QuestionHandler) FromLibrary(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	h.load(w, r, assessment.Selector{Kind: assessment.SelectLibrary, UserID: player.UserID})
}

// RandomQuestions handles GET /api/game/random-questions?count=
func (h *QuestionHandler) RandomQuestions(w http.ResponseWriter, r *http.Request) {
	count := h.quiz.PoolSize()
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid count", "", nil)
			return
		}
		count = n
	}
	h.load(w, r, assessment.Selector{Kind: assessment.SelectRandom, PoolSize: count})
}

func (h *QuestionHandler) load(w http.ResponseWriter, r *http.Request, sel assessment.Selector) {
	questions, err := h.quiz.LoadQuestions(r.Context(), sel)
	if err != nil {
		respondWithServiceError(w, "Error loading questions for "+sel.String(), err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	respondJSON(w, http.StatusOK, questions)
}

// CheckAnswer handles POST /question/checkAnswer. The body is the bare word
// "correct" or "incorrect".
func (h *QuestionHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	questionID, err := strconv.ParseInt(r.FormValue("questionID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid question ID", "", nil)
		return
	}

	correct, err := h.quiz.CheckAnswer(r.Context(), player.UserID, questionID, r.FormValue("userAnswer"))
	if err != nil {
		respondWithServiceError(w, "Error checking answer", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(assessment.VerdictOf(correct).String()))
}

// AddToLibrary handles POST /library/add?questionID=
func (h *QuestionHandler) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	questionID, err := strconv.ParseInt(r.FormValue("questionID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid question ID", "", nil)
		return
	}

	if err := h.quiz.AddToLibrary(r.Context(), player.UserID, questionID); err != nil {
		respondWithServiceError(w, "Error adding to library", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
