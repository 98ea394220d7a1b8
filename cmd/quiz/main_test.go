package main

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestReadLines(t *testing.T) {
	lines := readLines(strings.NewReader("apple\nbanana\n"), make(chan struct{}))

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	if strings.Join(got, ",") != "apple,banana" {
		t.Errorf("lines = %v", got)
	}
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	pr, pw := io.Pipe()
	done := make(chan struct{})
	lines := readLines(pr, done)

	close(done)
	// Nobody is receiving; the reader must give up on the line instead of blocking
	if _, err := pw.Write([]byte("late answer\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	pw.Close()
	time.Sleep(50 * time.Millisecond)

	select {
	case line, ok := <-lines:
		if ok {
			t.Errorf("received %q after done, want closed channel", line)
		}
	case <-time.After(time.Second):
		t.Fatal("reader goroutine did not exit")
	}
}
