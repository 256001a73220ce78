// ABOUTME: HTTP server assembly for inkwell
// ABOUTME: Wires store, auth middleware, API and web surfaces, and graceful shutdown

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/inkwell/internal/api"
	"github.com/2389/inkwell/internal/assets"
	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/config"
	"github.com/2389/inkwell/internal/store"
	"github.com/2389/inkwell/internal/web"
)

// pruneInterval is how often expired sessions are deleted.
const pruneInterval = time.Hour

// Server is the assembled inkwell HTTP server.
type Server struct {
	config     *config.Config
	store      store.Store
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server from the configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating JWT verifier: %w", err)
	}

	srv := &Server{
		config: cfg,
		store:  s,
		logger: logger.With("component", "server"),
	}

	mux := http.NewServeMux()

	// Health endpoints sit outside the authenticated surfaces.
	mux.HandleFunc("GET /health", srv.handleHealth)

	// Static assets
	mux.Handle("GET /static/", http.StripPrefix("/static/", assets.FileServer()))

	api.New(s, verifier, cfg.Auth.SessionTTL).RegisterRoutes(mux)
	web.New(s, cfg.Auth.SessionTTL).RegisterRoutes(mux)

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           auth.ResolveViewer(s, s, verifier)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Run starts the server and blocks until the context is canceled. Returns
// nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	go s.pruneSessions(ctx)

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// pruneSessions deletes expired sessions on a fixed interval until the
// context is canceled.
func (s *Server) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.DeleteExpiredSessions(ctx)
			if err != nil {
				s.logger.Error("failed to prune sessions", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("pruned expired sessions", "count", n)
			}
		}
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if len(errs) > 0 {
		return errs[0]
	}
	s.logger.Info("shutdown complete")
	return nil
}
