package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *TTSService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewTTSService(t.TempDir())
	s.endpoint = srv.URL
	s.client = srv.Client()
	return s
}

func TestSpeakCachesFile(t *testing.T) {
	var calls atomic.Int32
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") != "kitchen" {
			t.Errorf("q = %q, want kitchen", r.URL.Query().Get("q"))
		}
		w.Write([]byte("ID3fake"))
	})

	ref, err := s.Speak(context.Background(), " kitchen ")
	if err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if !strings.HasPrefix(ref, URLPrefix) || !strings.HasSuffix(ref, ".mp3") {
		t.Errorf("Speak() = %q, want %s...mp3", ref, URLPrefix)
	}

	data, err := os.ReadFile(filepath.Join(s.audioDir, filepath.Base(ref)))
	if err != nil || string(data) != "ID3fake" {
		t.Errorf("cached file = %q, %v", data, err)
	}

	again, err := s.Speak(context.Background(), "Kitchen")
	if err != nil || again != ref {
		t.Errorf("second Speak() = %q, %v; want cached %q", again, err, ref)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestSpeakUpstreamFailure(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := s.Speak(context.Background(), "door"); err == nil {
		t.Fatal("Speak() should fail on upstream error")
	}
	entries, _ := os.ReadDir(s.audioDir)
	if len(entries) != 0 {
		t.Errorf("audio dir has %d entries after failure, want 0", len(entries))
	}
}

func TestSpeakEmptyText(t *testing.T) {
	s := NewTTSService(t.TempDir())
	if _, err := s.Speak(context.Background(), "   "); err == nil {
		t.Error("Speak() with blank text should fail")
	}
}

func TestAudioFilename(t *testing.T) {
	if AudioFilename("en", "Chair") != AudioFilename("en", "chair") {
		t.Error("AudioFilename should ignore case")
	}
	if AudioFilename("en", "chair") == AudioFilename("vi", "chair") {
		t.Error("AudioFilename should depend on language")
	}
	if name := AudioFilename("en", "../etc/passwd"); strings.ContainsAny(name, "/\\") {
		t.Errorf("AudioFilename() = %q contains a path separator", name)
	}
}
