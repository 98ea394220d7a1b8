package handlers

const (
	ErrInvalidRequest      = "Invalid request"
	ErrUnauthorized        = "Unauthorized"
	ErrNotFound            = "Not found"
	ErrInternalServerError = "Internal server error"

	// maxBodyBytes bounds JSON request bodies
	maxBodyBytes = 64 << 10
)
