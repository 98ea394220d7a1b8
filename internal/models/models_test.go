package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPlayerClaimsIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := PlayerClaims{UserID: 1, Name: "Mai", ExpiresAt: tt.expiresAt}
			if got := claims.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		input string
		want  QuestionType
	}{
		{"TRANSLATE", QuestionTranslate},
		{"FILL_BLANK", QuestionFillBlank},
		{"LISTEN_WRITE", QuestionListenWrite},
		{"PRONOUNCE", QuestionPronounce},
		{"VI_TO_EN", QuestionTranslate},
		{"FILL_IN_THE_BLANK", QuestionFillBlank},
		{"LISTEN_AND_WRITE", QuestionListenWrite},
		{"PRONUNCIATION", QuestionPronounce},
		{"", QuestionTranslate},
		{"SOMETHING_NEW", QuestionTranslate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseQuestionType(tt.input); got != tt.want {
				t.Errorf("ParseQuestionType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuestionTypeHasAudio(t *testing.T) {
	tests := []struct {
		qt   QuestionType
		want bool
	}{
		{QuestionTranslate, false},
		{QuestionFillBlank, false},
		{QuestionListenWrite, true},
		{QuestionPronounce, true},
	}

	for _, tt := range tests {
		if got := tt.qt.HasAudio(); got != tt.want {
			t.Errorf("%s.HasAudio() = %v, want %v", tt.qt, got, tt.want)
		}
	}
}

func TestQuestionViewOmitsKey(t *testing.T) {
	data, err := json.Marshal(QuestionView{ID: 3, Text: "Cảm ơn", Type: QuestionTranslate})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)
	if strings.Contains(got, "correctAnswer") || strings.Contains(got, "audioURL") {
		t.Errorf("QuestionView JSON = %s, want no key and no empty audio", got)
	}
	if !strings.Contains(got, `"questionID":3`) {
		t.Errorf("QuestionView JSON = %s, want questionID", got)
	}
}
