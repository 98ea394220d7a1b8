package security

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID for hosted quiz sessions and token IDs
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsValidSessionID reports whether id looks like one GenerateSessionID made
func IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// BearerToken extracts the token from an Authorization header. Websocket clients
// cannot set headers, so the token query parameter is accepted as a fallback.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
