package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vocabquiz/internal/assessment"
)

// EmailService sends score reports through Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that skips every send.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service: region=%s from=%s", awsRegion, fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendScoreReport mails a player the outcome of a finished session
func (s *EmailService) SendScoreReport(ctx context.Context, toEmail, toName string, r assessment.Result) error {
	if !s.IsEnabled() {
		if s != nil && s.debug {
			log.Printf("[DEBUG] Skipping score report to %s (service disabled)", toEmail)
		}
		return nil
	}

	subject, htmlBody, textBody := buildScoreReport(toName, s.appBaseURL, r)
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

var variantTitles = map[string]string{
	assessment.VariantLessonQuiz:  "Lesson quiz",
	assessment.VariantLibraryQuiz: "Library review",
	assessment.VariantMiniGame:    "Mini game",
}

func buildScoreReport(name, appBaseURL string, r assessment.Result) (subject, htmlBody, textBody string) {
	title := variantTitles[r.Variant]
	if title == "" {
		title = "Quiz"
	}

	outcome := "You finished every question."
	if r.Status == assessment.StatusFailed {
		outcome = "You ran out of lives this time. Keep practising!"
	}

	subject = fmt.Sprintf("%s result: %d/%d", title, r.Score, r.Total)
	textBody = fmt.Sprintf("Hi %s,\n\n%s\nScore: %d out of %d\nWrong answers: %d\n\nPlay again at %s\n",
		name, outcome, r.Score, r.Total, r.WrongCount, appBaseURL)
	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>%s result</h2>
	<p>Hi %s,</p>
	<p>%s</p>
	<table>
		<tr><td>Score</td><td><strong>%d</strong> of %d</td></tr>
		<tr><td>Wrong answers</td><td>%d</td></tr>
	</table>
	<p><a href="%s">Play again</a></p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(name), outcome, r.Score, r.Total, r.WrongCount, html.EscapeString(appBaseURL))
	return subject, htmlBody, textBody
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
