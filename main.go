package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isandoval/librarian-be/internal/api"
	"github.com/isandoval/librarian-be/internal/auth"
	"github.com/isandoval/librarian-be/internal/config"
	"github.com/isandoval/librarian-be/internal/database"
	"github.com/isandoval/librarian-be/internal/logger"
	"github.com/isandoval/librarian-be/internal/maintenance"
	"github.com/isandoval/librarian-be/internal/services"
	"github.com/isandoval/librarian-be/internal/storage"
	"github.com/isandoval/librarian-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the cover image store
	covers, err := storage.NewCoverStore(cfg.UploadPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cover store")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService)
	bookService := services.NewBookService(db, covers, eventService, hub)

	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Set up and run the background cover sweeper
	sweeper, err := maintenance.NewSweeper(bookService, covers, cfg.CoverSweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cover sweeper")
	}
	sweeper.Start()

	// Set up router
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigin: cfg.AllowedOrigin,
		UploadPath:    cfg.UploadPath,
	}, tokens, userService, bookService, hub)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
