package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailydiet/backend/internal/auth"
	"github.com/dailydiet/backend/internal/config"
	"github.com/dailydiet/backend/internal/meals"
	"github.com/dailydiet/backend/internal/middleware"
	"github.com/dailydiet/backend/internal/store"
	"github.com/dailydiet/backend/internal/users"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		fatal("postgres connect", err)
	}
	defer pgPool.Close()
	if err := store.Migrate(cfg.PostgresDSN); err != nil {
		fatal("postgres migrate", err)
	}
	pgStore := store.NewPostgresStore(pgPool)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		fatal("redis connect", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	photos, err := store.NewPhotoStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		fatal("minio connect", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	userHandler := users.NewHandler(pgStore, sessions)
	mealHandler := meals.NewHandler(pgStore, photos)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// User routes; registration is public and mints the session cookie.
	r.Post("/users", userHandler.Create)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/users", userHandler.List)
		r.Get("/users/{userId}", userHandler.Get)
	})

	// Meal routes (session required)
	r.Route("/{userId}", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/meals", mealHandler.List)
		r.Post("/meals", mealHandler.Create)
		r.Get("/meals/{mealId}", mealHandler.Get)
		r.Patch("/meals/{mealId}", mealHandler.Update)
		r.Delete("/meals/{mealId}", mealHandler.Delete)
		r.Post("/meals/{mealId}/photo", mealHandler.UploadPhoto)
		r.Get("/meals/{mealId}/photo", mealHandler.DownloadPhoto)
		r.Get("/stats", mealHandler.Stats)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("backend listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
