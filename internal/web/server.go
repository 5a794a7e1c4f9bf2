package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/source"
)

// Server hosts the dashboard UI and JSON API. Every request re-runs the
// pipeline on the (TTL-cached) source table, so a new request simply
// supersedes the previous view of the data.
type Server struct {
	cfg        *config.Config
	cache      *source.Cache
	log        zerolog.Logger
	router     *mux.Router
	httpServer *http.Server
}

// NewServer creates the dashboard server with its routes configured.
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		cache: source.NewCache(cfg.CacheTTL),
		log:   log,
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	s.router.HandleFunc("/", s.handleDashboard).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", s.handleSummary).Methods("GET")
	api.HandleFunc("/branches", s.handleBranches).Methods("GET")
	api.HandleFunc("/views/{name}", s.handleView).Methods("GET")
	api.HandleFunc("/strategy", s.handleStrategy).Methods("GET")
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("dashboard listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}
