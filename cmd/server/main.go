package main

import (
	"context"
	"ctchen222/pokedex/internal/api/controller"
	"ctchen222/pokedex/internal/api/repository"
	"ctchen222/pokedex/internal/api/service"
	"ctchen222/pokedex/internal/auth"
	"ctchen222/pokedex/internal/config"
	"ctchen222/pokedex/internal/db"
	"ctchen222/pokedex/internal/logger"
	"ctchen222/pokedex/internal/server"
	"ctchen222/pokedex/internal/storage"
	"ctchen222/pokedex/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("pokedex: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize telemetry before the logger so the slog bridge has a provider.
	shutdownTelemetry, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()
	logger.Init(cfg.SlogLevel(), cfg.Telemetry.Enabled)

	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.InitializeSchema(ctx, pool); err != nil {
		return err
	}

	images, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenTTL())
	if err != nil {
		return err
	}
	metrics, err := telemetry.NewHTTPMetrics(cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}

	// Create repositories
	userRepo := repository.NewUserRepository(pool)
	pokemonRepo := repository.NewPokemonRepository(pool)

	// Create services
	userService := service.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	pokemonService := service.NewPokemonService(pokemonRepo, images, service.PokemonServiceConfig{
		Bucket:              cfg.Storage.Bucket,
		PlaceholderTemplate: cfg.Storage.PlaceholderTemplate,
	})

	// Create controllers
	userController := controller.NewUserController(userService)
	pokemonController := controller.NewPokemonController(pokemonService, cfg.Storage.MaxUploadBytes)

	srv := server.NewServer(server.Options{
		ServiceName:    cfg.Telemetry.ServiceName,
		Tokens:         tokens,
		Database:       pool,
		Metrics:        metrics,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}, userController, pokemonController)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler: srv.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
