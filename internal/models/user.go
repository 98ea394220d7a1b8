package models

import "time"

// User represents a learner account
type User struct {
	ID           int64
	Name         string
	// Email receives score reports. It is optional.
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlayerClaims is the identity carried by a validated bearer token
type PlayerClaims struct {
	UserID    int64
	Name      string
	ExpiresAt time.Time
}

// IsExpired checks if the token has expired
func (c *PlayerClaims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
