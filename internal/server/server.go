// Package server is the composition root: it opens the database, wires
// stores → services → handlers, defines the route table and runs the HTTP
// server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/config"
	"github.com/sakif/coffee-finder/internal/handler"
	"github.com/sakif/coffee-finder/internal/middleware"
	sqliteRepo "github.com/sakif/coffee-finder/internal/repository/sqlite"
	"github.com/sakif/coffee-finder/internal/service"
)

const loginPath = "/login"

// ErrPendingMigrations is returned by New when the schema is behind and
// auto-migration is off.
var ErrPendingMigrations = errors.New("database has pending migrations; run `coffee-finder migrate` or set database.auto_migrate")

// Server owns the router and the database pool. Close releases the pool.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// OpenDatabase opens the configured SQLite database, creating the parent
// directory of a file database if needed.
func OpenDatabase(cfg config.DatabaseConfig) (*sqliteRepo.DB, error) {
	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sqliteRepo.Open(cfg.Path, sqliteRepo.Options{ForeignKeys: cfg.ForeignKeys})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// SeedOptions derives the data-migration settings from cfg.
func SeedOptions(cfg config.Config, hasher sqliteRepo.PasswordHasher) sqliteRepo.SeedOptions {
	return sqliteRepo.SeedOptions{
		DemoShops:     cfg.Seed.DemoShops,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Hasher:        hasher,
	}
}

// New opens the database, checks or applies migrations and builds the
// router. It fails with ErrPendingMigrations when the schema is behind and
// cfg.Database.AutoMigrate is false.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	passwords := auth.NewPasswordService(cfg.Auth.BcryptCost)
	if err := s.prepareSchema(ctx, passwords); err != nil {
		db.Close()
		return nil, err
	}

	tokens, err := s.tokenService()
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := s.setupRoutes(tokens, passwords); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) prepareSchema(ctx context.Context, passwords *auth.PasswordService) error {
	pending, err := s.db.PendingMigrations(ctx)
	if err != nil {
		return err
	}
	if pending == 0 {
		return nil
	}
	if !s.config.Database.AutoMigrate {
		return fmt.Errorf("%w (%d pending)", ErrPendingMigrations, pending)
	}

	ran, err := s.db.Migrate(ctx, SeedOptions(s.config, passwords))
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	s.logger.Info("database migrated",
		slog.Int("applied", ran),
		slog.Int("version", sqliteRepo.LatestVersion()),
	)
	return nil
}

func (s *Server) tokenService() (*auth.TokenService, error) {
	secret := s.config.Auth.SessionSecret
	if secret == "" {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		s.logger.Warn("auth.session_secret not set; using a random secret, sessions will not survive a restart")
	}

	tokens, err := auth.NewTokenService(secret, s.config.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	return tokens, nil
}

// setupRoutes wires the dependency chain and the route table:
//
//	GET  /                     map page
//	GET  /api/shops?q=         list or search shops (JSON)
//	GET  /api/shops/{id}       one shop (JSON)
//	GET  /api/reviews/{id}     reviews of a shop (JSON)
//	GET  /api/favorites        current user's favorites (JSON, session)
//	GET  /login, POST /login   login form
//	POST /logout
//	GET  /auth/github/*        GitHub login, when configured
//	POST /favorite/{id}        (session)
//	POST /review/{id}          (session)
//	/admin/...                 shop management (admin session)
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.LoadSession(tokens))

	pages, err := handler.NewPages(s.logger)
	if err != nil {
		return err
	}

	shopService := service.NewShopService(s.db.Shops(), s.logger)
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	favoriteService := service.NewFavoriteService(s.db.Favorites(), s.logger)
	reviewService := service.NewReviewService(s.db.Reviews(), s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHub.Enabled() {
		callback := s.config.GitHub.CallbackURL
		if callback == "" {
			callback = fmt.Sprintf("http://localhost:%d/auth/github/callback", s.config.HTTP.Port)
		}
		github = auth.NewGitHubProvider(s.config.GitHub.ClientID, s.config.GitHub.ClientSecret, callback)
	}

	shopHandler := handler.NewShopHandler(shopService)
	authHandler := handler.NewAuthHandler(authService, github, pages, s.config.Auth.CookieSecure, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(shopService, pages)

	s.router.Get("/", pages.HandleMap)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(loginPath))
		r.Post("/favorite/{id}", favoriteHandler.HandleAdd)
		r.Post("/review/{id}", reviewHandler.HandleAdd)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/shops", shopHandler.HandleList)
		r.Get("/shops/{id}", shopHandler.HandleGet)
		r.Get("/reviews/{id}", reviewHandler.HandleList)
		r.With(auth.RequireAuth).Get("/favorites", favoriteHandler.HandleList)
	})

	s.router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(loginPath))
		r.Get("/", adminHandler.HandleIndex)
		r.Post("/add", adminHandler.HandleAdd)
		r.Get("/edit/{id}", adminHandler.HandleEditPage)
		r.Post("/edit/{id}", adminHandler.HandleEdit)
		r.Post("/delete/{id}", adminHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// DB returns the database pool the server owns.
func (s *Server) DB() *sqliteRepo.DB {
	return s.db
}

// Close releases the database pool.
func (s *Server) Close() error {
	return s.db.Close()
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to http.shutdown_timeout to finish.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.HTTP.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
		IdleTimeout:  s.config.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting",
			slog.Int("port", s.config.HTTP.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.HTTP.Port)),
			slog.String("database", s.config.Database.Path),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
