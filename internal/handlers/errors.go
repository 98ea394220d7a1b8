package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
	"vocabquiz/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondWithServiceError maps a service error to the status a client can act on.
// Unknown errors are logged and reported as 500.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, security.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
	case errors.Is(err, service.ErrNameTaken):
		respondWithError(w, http.StatusConflict, "Name already taken", "", nil)
	case errors.Is(err, service.ErrQuestionNotFound), errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrResultNotFound):
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
	case errors.Is(err, service.ErrInvalidResult):
		respondWithError(w, http.StatusBadRequest, "Invalid result", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
