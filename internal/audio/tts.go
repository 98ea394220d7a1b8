package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	googleTTSURL      = "https://translate.google.com/translate_tts"
	ttsRequestTimeout = 10 * time.Second
	// URLPrefix is where the server exposes the audio directory
	URLPrefix = "/static/audio/"
)

// TTSService reads question words aloud by caching Google Translate TTS
// output as MP3 files. It satisfies assessment.Speaker.
type TTSService struct {
	audioDir string
	language string
	endpoint string
	client   *http.Client
}

// NewTTSService creates a TTS service that stores files in audioDir
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		language: "en",
		endpoint: googleTTSURL,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Speak returns the URL path of an MP3 reading text aloud, generating it on first use
func (s *TTSService) Speak(ctx context.Context, text string) (string, error) {
	filename, err := s.GenerateAudioFile(ctx, text)
	if err != nil {
		return "", err
	}
	return path.Join(URLPrefix, filename), nil
}

// GenerateAudioFile converts text to speech and saves it as MP3.
// Returns the filename (not full path) on success.
func (s *TTSService) GenerateAudioFile(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text to speak")
	}

	filename := AudioFilename(s.language, text)
	fullPath := filepath.Join(s.audioDir, filename)
	if _, err := os.Stat(fullPath); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := s.fetch(ctx, text, fullPath); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}
	return filename, nil
}

// AudioFilename names the cached file for text. Words may contain any script,
// so the name is derived from a hash rather than the text itself.
func AudioFilename(language, text string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + strings.ToLower(text)))
	return "word_" + hex.EncodeToString(sum[:8]) + ".mp3"
}

func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", s.language)
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(text)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Write under a temp name so a concurrent Speak never serves a partial file
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tts-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}
