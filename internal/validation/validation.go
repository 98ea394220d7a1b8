package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	MaxNameLength     = 50
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	MaxPasswordBytes = 72
	MaxAnswerLength  = 200
	MaxQuestionCount = 50
)

// ValidationError reports which request field was rejected
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	if len(password) > MaxPasswordBytes {
		return ValidationError{Field: "password", Message: "password is too long"}
	}
	return nil
}

// ValidateName checks a player's login name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if n > MaxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ValidationError{Field: "name", Message: "name contains invalid characters"}
		}
	}
	return nil
}

// ValidateAnswer bounds the size of a submitted answer. Empty answers are allowed.
func ValidateAnswer(answer string) error {
	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return ValidationError{Field: "userAnswer", Message: "answer is too long"}
	}
	return nil
}

// ValidateQuestionCount checks the size of a requested question pool
func ValidateQuestionCount(count int) error {
	if count < 1 || count > MaxQuestionCount {
		return ValidationError{Field: "count", Message: fmt.Sprintf("count must be between 1 and %d", MaxQuestionCount)}
	}
	return nil
}
