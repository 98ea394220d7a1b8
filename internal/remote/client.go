// Package remote plays assessment sessions against a vocabquiz server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/models"
)

// ErrNotLoggedIn is returned by calls that need a token before Login succeeded
var ErrNotLoggedIn = errors.New("not logged in")

// StatusError is a non-2xx response from the server
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

var (
	_ assessment.QuestionSource = (*Client)(nil)
	_ assessment.Adjudicator    = (*Client)(nil)
	_ assessment.ResultSink     = (*Client)(nil)
)

// Client is the question source, adjudicator and result sink of a session
// played against the HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	token  string
	userID int64
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type loginResponse struct {
	UserID    int64     `json:"userID"`
	Name      string    `json:"fullName"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, _ := json.Marshal(map[string]string{"fullName": name, "email": email, "password": password})
	resp, err := doOnce(c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, "/users/register", "application/json", bytes.NewReader(body), false)
	})
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Login authenticates and keeps the bearer token for later calls. It returns the user ID.
func (c *Client) Login(ctx context.Context, name, password string) (int64, error) {
	body, _ := json.Marshal(map[string]string{"fullName": name, "password": password})
	resp, err := doOnce(c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, "/users/login", "application/json", bytes.NewReader(body), false)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return 0, fmt.Errorf("failed to decode login response: %w", err)
	}

	c.mu.Lock()
	c.token = lr.Token
	c.userID = lr.UserID
	c.mu.Unlock()
	return lr.UserID, nil
}

// UserID returns the logged-in player, or 0
func (c *Client) UserID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// LoadQuestions fetches the set sel names. Throttling and server errors are retried.
func (c *Client) LoadQuestions(ctx context.Context, sel assessment.Selector) ([]models.Question, error) {
	var path string
	switch sel.Kind {
	case assessment.SelectLesson:
		path = "/question/allByLessonID?lessonID=" + strconv.FormatInt(sel.LessonID, 10)
	case assessment.SelectLibrary:
		path = "/question/fromLibrary"
	case assessment.SelectRandom:
		path = "/api/game/random-questions"
		if sel.PoolSize > 0 {
			path += "?count=" + strconv.Itoa(sel.PoolSize)
		}
	default:
		return nil, fmt.Errorf("unknown selector: %s", sel)
	}

	resp, err := doWithRetry(ctx, c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, path, "", nil, true)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	defer resp.Body.Close()

	var questions []models.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// CheckAnswer asks the server for a verdict. One attempt; the engine lets the
// player resubmit on failure. userID is implied by the token.
func (c *Client) CheckAnswer(ctx context.Context, userID, questionID int64, answer string) (bool, error) {
	form := url.Values{
		"questionID": {strconv.FormatInt(questionID, 10)},
		"userAnswer": {answer},
	}
	resp, err := doOnce(c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, "/question/checkAnswer",
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), true)
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return false, fmt.Errorf("failed to read verdict: %w", err)
	}
	switch strings.TrimSpace(string(body)) {
	case "correct":
		return true, nil
	case "incorrect":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected verdict %q", body)
	}
}

// SubmitResult posts a finished session. One attempt.
func (c *Client) SubmitResult(ctx context.Context, r assessment.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	resp, err := doOnce(c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, "/api/game/update-score", "application/json", bytes.NewReader(body), true)
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// AddToLibrary saves a question to the player's review list
func (c *Client) AddToLibrary(ctx context.Context, questionID int64) error {
	path := "/library/add?questionID=" + strconv.FormatInt(questionID, 10)
	resp, err := doOnce(c.httpClient, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, path, "", nil, true)
	})
	if err != nil {
		return fmt.Errorf("failed to add to library: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, contentType string, body io.Reader, auth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
