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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fileintake/internal/blob"
	"fileintake/internal/config"
	"fileintake/internal/handler"
	"fileintake/internal/mw"
	"fileintake/internal/service"
	"fileintake/internal/storage"
	"fileintake/internal/worker"
)

func main() {
	cfg := config.New()

	docs := storage.NewDocument(cfg.OrdersFile)
	blobs := blob.NewStore(cfg.UploadDir)

	// Services
	authSvc, err := service.NewAuthService(cfg.AdminLogin, cfg.AdminPassword)
	if err != nil {
		slog.Error("failed to set up auth", "error", err)
		os.Exit(1)
	}
	intakeSvc := service.NewIntakeService(docs, blobs)
	orderSvc := service.NewOrderService(docs, blobs)

	// Worker
	sweeper := worker.NewSweeper(orderSvc, blobs)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/upload", handler.UploadHandler(intakeSvc, cfg.MaxUploadBytes))
	r.Post("/login", handler.LoginHandler(authSvc, cfg.JWTSecret))
	r.Post("/logout", handler.LogoutHandler())
	r.Get("/uploads/{name}", handler.FileHandler(blobs))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/orders", handler.ListOrdersHandler(orderSvc))
		r.Post("/complete/{id}", handler.CompleteOrderHandler(orderSvc))
		r.Post("/delete/{id}", handler.DeleteOrderHandler(orderSvc))
		r.Get("/debug/db", handler.DebugHandler(orderSvc, cfg.OrdersFile))
		r.Get("/debug/session", handler.SessionDebugHandler())
	})

	// Frontend
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sweeper.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
