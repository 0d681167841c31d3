package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/api"
	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/logging"
	"github.com/metropolia/infoscreen/internal/metrics"
	"github.com/metropolia/infoscreen/internal/opendata"
	"github.com/metropolia/infoscreen/internal/repository"
	"github.com/metropolia/infoscreen/internal/service"
	"github.com/metropolia/infoscreen/internal/web"
)

const keepAliveInterval = 15 * time.Second

func main() {
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
	})

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize repository")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing repository")
		}
	}()

	var metricsService *metrics.Service
	if cfg.Server.MetricsEnabled {
		metricsService = metrics.NewService()
	}

	if !cfg.OpenData.IsOpenDataConfigValid() {
		log.Warn().Msg("OpenData API key or base URL missing, reservation lookups will fail")
	}
	gateway := opendata.NewClient(cfg.OpenData)
	gateway.SetObserver(metricsService)

	// Initialize the service layer
	roomService := service.NewRoomService(repo, gateway)
	freeSpaceService := service.NewFreeSpaceService(repo, gateway,
		service.WithMaxConcurrency(cfg.OpenData.MaxConcurrency),
		service.WithObserver(metricsService),
	)

	// Register the SSE update callback with the room service
	broadcaster := web.NewBroadcaster()
	roomService.RegisterUpdateCallback(broadcaster.NotifyUpdate)

	keepAliveCtx, stopKeepAlive := context.WithCancel(context.Background())
	defer stopKeepAlive()
	go broadcaster.KeepAlive(keepAliveCtx, keepAliveInterval)

	router := api.NewRouter(api.Dependencies{
		Rooms:        roomService,
		FreeSpace:    freeSpaceService,
		Reservations: gateway,
		Store:        repo,
		Events:       broadcaster,
		Metrics:      metricsService,
		Auth:         cfg.Auth,
		CORSOrigins:  cfg.Server.AllowedOrigins,
	})

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Backend).
			Bool("metrics", cfg.Server.MetricsEnabled).
			Msg("Starting infoscreen API server")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error starting server")
		}

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")

		// Close SSE connections first so Shutdown does not wait on them
		stopKeepAlive()
		broadcaster.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			log.Error().Err(err).Msg("Error shutting down server")
			return
		}

		log.Info().Msg("Server gracefully stopped")
	}
}
