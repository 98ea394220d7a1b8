package service

import (
	"context"
	"strings"
	"testing"

	"vocabquiz/internal/assessment"
)

func TestDisabledEmailService(t *testing.T) {
	s, err := NewEmailService(context.Background(), "us-east-1", "", "", "", true)
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}
	if s.IsEnabled() {
		t.Error("IsEnabled() = true without a sender")
	}
	if err := s.SendScoreReport(context.Background(), "a@example.com", "A", assessment.Result{}); err != nil {
		t.Errorf("SendScoreReport() error = %v, want nil when disabled", err)
	}

	var nilService *EmailService
	if nilService.IsEnabled() {
		t.Error("nil service reports enabled")
	}
}

func TestBuildScoreReport(t *testing.T) {
	tests := []struct {
		name        string
		result      assessment.Result
		wantSubject string
		wantText    string
	}{
		{
			name:        "completed lesson",
			result:      assessment.Result{Variant: assessment.VariantLessonQuiz, Status: assessment.StatusCompleted, Score: 4, Total: 5, WrongCount: 1},
			wantSubject: "Lesson quiz result: 4/5",
			wantText:    "You finished every question.",
		},
		{
			name:        "failed mini game",
			result:      assessment.Result{Variant: assessment.VariantMiniGame, Status: assessment.StatusFailed, Score: 2, Total: 10, WrongCount: 2},
			wantSubject: "Mini game result: 2/10",
			wantText:    "ran out of lives",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, htmlBody, textBody := buildScoreReport("<Lan>", "http://quiz.test", tt.result)
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			if !strings.Contains(textBody, tt.wantText) {
				t.Errorf("text body %q missing %q", textBody, tt.wantText)
			}
			if strings.Contains(htmlBody, "<Lan>") || !strings.Contains(htmlBody, "&lt;Lan&gt;") {
				t.Error("html body does not escape the player name")
			}
		})
	}
}
