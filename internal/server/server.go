// Package server wires the router, middleware, handlers, and database
// together, and owns the HTTP server lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/auction-house/internal/auth"
	"github.com/sakif/auction-house/internal/handler"
	"github.com/sakif/auction-house/internal/middleware"
	sqliteRepo "github.com/sakif/auction-house/internal/repository/sqlite"
	"github.com/sakif/auction-house/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the dependency chain: database → repositories → services
// → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// GET  /api/listings                → active listings (?category= filter)
// GET  /api/listings/{id}           → listing detail (bids, comments, watch state)
// POST /api/listings                → create listing           (auth)
// POST /api/listings/{id}/bids      → place bid                (auth)
// POST /api/listings/{id}/close     → close listing, pick winner (auth, lister only)
// POST /api/listings/{id}/watch     → toggle watchlist         (auth)
// POST /api/listings/{id}/comments  → add comment              (auth)
// GET  /api/watchlist               → the user's watchlist     (auth)
// GET  /api/me                      → current user             (auth)
// POST /auth/register|login|logout  → session management
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	listingService := service.NewListingService(s.db, s.logger)
	bidService := service.NewBidService(s.db, s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.db, s.logger)
	watchlistService := service.NewWatchlistService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	listingHandler := handler.NewListingHandler(listingService, bidService, commentService, watchlistService, s.logger)
	bidHandler := handler.NewBidHandler(bidService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads; OptionalAuth lets logged-in viewers see their
		// own watch state on the detail page.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/listings", listingHandler.HandleList)
			r.Get("/listings/{id}", listingHandler.HandleGetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/listings", listingHandler.HandleCreate)
			r.Post("/listings/{id}/bids", bidHandler.HandlePlace)
			r.Post("/listings/{id}/close", listingHandler.HandleClose)
			r.Post("/listings/{id}/watch", watchlistHandler.HandleToggle)
			r.Post("/listings/{id}/comments", commentHandler.HandleCreate)
			r.Get("/watchlist", watchlistHandler.HandleList)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, and
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.Int("port", s.config.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
