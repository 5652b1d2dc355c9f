package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/mkpass/mkpass-go/internal/config"
	"github.com/mkpass/mkpass-go/internal/handler"
	"github.com/mkpass/mkpass-go/internal/middleware"
	"github.com/mkpass/mkpass-go/internal/repository"
	"github.com/mkpass/mkpass-go/internal/service"
)

// Auth endpoints get a tighter budget than generation.
const (
	authRateLimitRPS   = 5
	authRateLimitBurst = 10
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, auth and profile routes disabled", "error", err)
	} else {
		defer db.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(ctx, cfg, db),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newRouter wires every route. A nil db leaves out the auth and profile
// routes. Rate limiter sweeps stop when ctx is done.
func newRouter(ctx context.Context, cfg config.Config, db *sql.DB) http.Handler {
	genService := service.NewGeneratorService(cfg.Defaults)
	genHandler := handler.NewGeneratorHandler(genService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
	})
	r.Post("/api/v1/validate", genHandler.HandleValidate)
	r.Get("/api/v1/samples", genHandler.HandleSamples)
	r.Get("/api/v1/samples/{kind}", genHandler.HandleSample)

	if db == nil {
		return r
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpiry)
	authHandler := handler.NewAuthHandler(authService)

	profileService := service.NewProfileService(repository.NewProfileRepository(db), genService)
	profileHandler := handler.NewProfileHandler(profileService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, authRateLimitRPS, authRateLimitBurst))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Get("/api/v1/profiles", profileHandler.HandleList)
		r.Put("/api/v1/profiles/{name}", profileHandler.HandlePut)
		r.Delete("/api/v1/profiles/{name}", profileHandler.HandleDelete)
		r.Post("/api/v1/profiles/{name}/generate", profileHandler.HandleGenerate)
	})

	return r
}
