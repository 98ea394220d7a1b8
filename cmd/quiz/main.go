package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocabquiz/internal/assessment"
	"vocabquiz/internal/config"
	"vocabquiz/internal/remote"
)

func main() {
	cfg := config.Load()

	server := flag.String("server", cfg.APIBaseURL, "vocabquiz server URL")
	name := flag.String("name", "", "Player name (required)")
	password := flag.String("password", os.Getenv("VOCABQUIZ_PASSWORD"), "Player password")
	register := flag.Bool("register", false, "Create the account before playing")
	variant := flag.String("variant", assessment.VariantMiniGame, "lesson_quiz, library_quiz or mini_game")
	lessonID := flag.Int64("lesson", 0, "Lesson ID for lesson_quiz")
	count := flag.Int("count", cfg.RandomPoolSize, "Number of questions for mini_game")
	flag.Parse()

	if *name == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: -name and -password are required")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := remote.NewClient(*server, 15*time.Second)
	if *register {
		if err := client.Register(ctx, *name, "", *password); err != nil {
			log.Fatalf("Registration failed: %v", err)
		}
	}
	userID, err := client.Login(ctx, *name, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	sel, err := assessment.SelectorFor(*variant, userID, *lessonID, *count)
	if err != nil {
		log.Fatalf("Invalid session: %v", err)
	}
	cfgFor, err := assessment.Preset(*variant)
	if err != nil {
		log.Fatalf("Invalid session: %v", err)
	}
	if *variant == assessment.VariantMiniGame {
		cfgFor, err = assessment.MiniGameWithPolicy(cfg.MiniGameTimeLimit, cfg.MiniGameWrongLimit, cfg.MiniGameNormalization)
		if err != nil {
			log.Fatalf("Invalid session: %v", err)
		}
	}

	sink := &reportingSink{Client: client, done: make(chan error, 1)}
	runner, err := assessment.NewRunner(cfgFor, userID, client,
		assessment.WithAdjudicator(client),
		assessment.WithResultSink(sink),
		assessment.WithDebug(cfg.Debug),
	)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer runner.Close()

	runner.Start(ctx, sel)
	play(runner, os.Stdin)

	if !runner.Snapshot().Status.Terminal() {
		return
	}
	select {
	case err := <-sink.done:
		if err != nil {
			fmt.Printf("Result was not saved: %v\n", err)
			return
		}
		fmt.Println("Result saved.")
	case <-time.After(15 * time.Second):
		fmt.Println("Result submission timed out.")
	}
}

// reportingSink tells main when the result submission has finished
type reportingSink struct {
	*remote.Client
	done chan error
}

func (s *reportingSink) SubmitResult(ctx context.Context, r assessment.Result) error {
	err := s.Client.SubmitResult(ctx, r)
	s.done <- err
	return err
}

// play prints each question and feeds typed lines to the runner until the session ends
func play(runner *assessment.Runner, in io.Reader) {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	var shown uint64
	var lastErr error
	for {
		select {
		case st, ok := <-runner.Updates():
			if !ok {
				return
			}
			if done := render(st, &shown, &lastErr); done {
				return
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			st := runner.Snapshot()
			if st.Status == assessment.StatusActive && !st.AwaitingVerdict() {
				runner.Submit(st.Token, line)
			}
		}
	}
}

// readLines streams lines from in until it is exhausted or done is closed
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// render prints what changed and reports whether the session is over
func render(st assessment.State, shown *uint64, lastErr *error) bool {
	switch st.Status {
	case assessment.StatusSetupFailed:
		fmt.Printf("Could not start: %v\n", st.Err)
		return true
	case assessment.StatusCompleted, assessment.StatusFailed:
		fmt.Printf("\n%s! Score %d/%d, %d wrong\n", st.Status, st.Score, len(st.Questions), st.WrongCount)
		return true
	case assessment.StatusActive:
		if st.Err != nil && st.Err != *lastErr {
			fmt.Printf("  %v, type your answer again\n", st.Err)
		}
		*lastErr = st.Err
		if st.Token != *shown {
			*shown = st.Token
			q, _ := st.Current()
			fmt.Printf("\n[%d/%d] %s (%s)", st.CurrentIndex+1, len(st.Questions), q.Text, q.Type)
			if st.Config.Timed() {
				fmt.Printf("  %ds", st.TimeLeft())
			}
			fmt.Print("\n> ")
		}
	}
	return false
}
