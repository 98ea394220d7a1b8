package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocabquiz/internal/audio"
	"vocabquiz/internal/config"
	"vocabquiz/internal/database"
	"vocabquiz/internal/handlers"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// Initialize services
	ctx := context.Background()
	emailService, err := service.NewEmailService(ctx, cfg.SESRegion, cfg.SESFromEmail, "vocabquiz", cfg.AppURL, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(userRepo, security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration))
	ttsService := audio.NewTTSService(cfg.AudioDir)
	quizService := service.NewQuizService(questionRepo, resultRepo, userRepo, emailService, ttsService,
		service.QuizSettings{
			MiniGameTimeLimit:  cfg.MiniGameTimeLimit,
			MiniGameWrongLimit: cfg.MiniGameWrongLimit,
			RandomPoolSize:     cfg.RandomPoolSize,
			MiniGamePolicy:     cfg.MiniGameNormalization,
		}, cfg.Debug)

	handler := handlers.NewRouter(handlers.RouterConfig{
		AuthService:  authService,
		Quiz:         quizService,
		LoginLimiter: security.NewRateLimiter(10, time.Minute),
		StaticDir:    cfg.StaticFilesPath,
		CORSOrigins:  cfg.CORSOrigins,
	})

	// Start server. No write timeout: /ws/quiz connections are long-lived.
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// End hosted sessions while the database is still open
	quizService.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
