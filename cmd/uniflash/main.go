package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"uniflash/internal/config"
	"uniflash/internal/handlers"
	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"
	"uniflash/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := db.AutoMigrate(
		&model.Flashcard{},
		&model.FlashcardSet{},
		&model.ReviewSession{},
		&model.Setting{},
	); err != nil {
		slog.Error("Error migrating schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency injection
	cardRepo := repository.NewGormCardRepository()
	setRepo := repository.NewGormSetRepository()
	sessionRepo := repository.NewGormSessionRepository()
	settingsRepo := repository.NewGormSettingsRepository()

	location, err := time.LoadLocation(config.Cfg.App.Timezone)
	if err != nil {
		slog.Warn("Unknown timezone in config, falling back to UTC", slog.String("timezone", config.Cfg.App.Timezone))
		location = time.UTC
	}

	authService := service.NewAuthService(&config.Cfg)
	settingsService := service.NewSettingsService(db, settingsRepo)
	cardService := service.NewCardService(db, cardRepo, setRepo)
	setService := service.NewSetService(db, setRepo, cardRepo)
	reviewService := service.NewReviewService(db, cardRepo, sessionRepo, settingsService, &config.Cfg, logger)
	dashboardService := service.NewDashboardService(db, cardRepo, setRepo, sessionRepo, location)
	generationService := service.NewGenerationService(service.NewChatCompleter(config.Cfg.OpenAI))

	authHandler := handlers.NewAuthHandler(authService, logger)
	cardHandler := handlers.NewCardHandler(cardService, logger)
	setHandler := handlers.NewSetHandler(setService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)
	settingsHandler := handlers.NewSettingsHandler(settingsService, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)
	generationHandler := handlers.NewGenerationHandler(generationService, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", cardHandler.PostCard)
				r.Get("/", cardHandler.GetCards)
				r.Get("/{card_id}", cardHandler.GetCard)
				r.Put("/{card_id}", cardHandler.PutCard)
				r.Patch("/{card_id}", cardHandler.PatchCard)
				r.Delete("/{card_id}", cardHandler.DeleteCard)
				r.Put("/{card_id}/flag", cardHandler.PutFlag)
				r.Put("/{card_id}/notes", cardHandler.PutNotes)
			})

			r.Route("/sets", func(r chi.Router) {
				r.Post("/", setHandler.PostSet)
				r.Get("/", setHandler.GetSets)
				r.Get("/{set_id}", setHandler.GetSet)
				r.Put("/{set_id}", setHandler.PutSet)
				r.Delete("/{set_id}", setHandler.DeleteSet)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", reviewHandler.StartSession)
				r.Post("/{session_id}/reveal", reviewHandler.Reveal)
				r.Post("/{session_id}/rate", reviewHandler.Rate)
				r.Post("/{session_id}/finalize", reviewHandler.Finalize)
				r.Post("/{session_id}/overlay/open", reviewHandler.OpenOverlay)
				r.Post("/{session_id}/overlay/close", reviewHandler.CloseOverlay)
				r.Post("/{session_id}/shuffle", reviewHandler.Shuffle)
				r.Put("/{session_id}/reverse", reviewHandler.SetReverse)
				r.Delete("/{session_id}", reviewHandler.Abandon)
			})

			r.Get("/streak", reviewHandler.GetStreak)
			r.Get("/dashboard", dashboardHandler.GetDashboard)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/intervals", settingsHandler.GetIntervalPolicy)
				r.Put("/intervals", settingsHandler.PutIntervalPolicy)
				r.Get("/preferences", settingsHandler.GetReviewPreferences)
				r.Put("/preferences", settingsHandler.PutReviewPreferences)
			})

			r.Route("/generate", func(r chi.Router) {
				r.Post("/flashcards", generationHandler.GenerateFlashcards)
				r.Post("/cloze", generationHandler.GenerateCloze)
				r.Post("/quiz", generationHandler.GenerateQuiz)
				r.Post("/cleanup", generationHandler.CleanupText)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
