package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/config"
	"github.com/Simplici0/printworks/internal/db"
	"github.com/Simplici0/printworks/internal/logger"
	"github.com/Simplici0/printworks/internal/migrations"
	"github.com/Simplici0/printworks/internal/quote"
	"github.com/Simplici0/printworks/internal/seed"
)

type server struct {
	db      *sql.DB
	auth    *authService
	catalog *catalog.Store
	quotes  *quote.Service
	log     *zap.Logger
}

func newServer(database *sql.DB, sessionSecret string, secureCookies bool, log *zap.Logger) *server {
	store := catalog.NewStore(database)
	return &server{
		db:      database,
		auth:    newAuthService(database, sessionSecret, secureCookies),
		catalog: store,
		quotes:  quote.NewService(database, store, log.Named("quote")),
		log:     log,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	cfg.Warn(logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logg.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		logg.Fatal("failed to run database migrations", zap.Error(err))
	}
	version, err := migrations.Version(ctx, database)
	if err != nil {
		logg.Fatal("failed to read schema version", zap.Error(err))
	}
	logg.Info("database ready", zap.Int64("schema_version", version))

	if cfg.SeedOnStart {
		stats, err := seed.Run(ctx, database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
		if err != nil {
			logg.Fatal("failed to seed database", zap.Error(err))
		}
		logg.Info("seed complete", zap.Int("inserts", stats.Inserts))
	}

	srv := newServer(database, cfg.SessionSecret, !cfg.IsDev(), logg)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logg.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sheets", s.handleSheets)
		r.Post("/calc/layout", s.handleCalcLayout)
		r.Post("/calc/sheets", s.handleCalcSheets)
		r.Post("/calc/price", s.handleCalcPrice)
		r.Post("/calc/quote", s.handleCalcQuote)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleQuotesList)
			r.Post("/", s.handleQuoteCreate)
			r.Get("/{ref}", s.handleQuoteDetail)
			r.Get("/{ref}/text", s.handleQuoteText)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/rates", s.handleAdminRatesGet)
			r.Put("/rates", s.handleAdminRatesUpdate)
			r.Get("/papers", s.handleAdminPapersList)
			r.Post("/papers", s.handleAdminPapersCreate)
			r.Put("/papers/{id}", s.handleAdminPapersUpdate)
			r.Get("/products", s.handleAdminProductsList)
			r.Post("/products", s.handleAdminProductsCreate)
			r.Get("/products/{id}", s.handleAdminProductsGet)
			r.Put("/products/{id}/bands", s.handleAdminProductBands)
		})
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	email := strings.TrimSpace(req.Email)
	valid, err := s.auth.validateCredentials(r.Context(), email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !valid {
		writeJSONError(w, http.StatusUnauthorized, errCodeUnauthorized, "invalid credentials")
		return
	}

	if err := s.auth.setSessionCookie(w, email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, map[string]string{"email": email})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
