package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"ezmode_site/internal/metrics"
	"ezmode_site/internal/site"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Server serves the rendered site from the live catalog
type Server struct {
	content   *site.Content
	refresher *Refresher
	baseURL   string
}

func New(content *site.Content, refresher *Refresher, baseURL string) *Server {
	return &Server{
		content:   content,
		refresher: refresher,
		baseURL:   baseURL,
	}
}

// Handler returns the routes of the site
func (s *Server) Handler() http.Handler {
	policies := templ.Handler(site.PoliciesPage(s.content, s.baseURL))

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", withRequestLogging("home", http.HandlerFunc(s.handleHome)))
	mux.Handle("GET "+site.PoliciesPath, withRequestLogging("policies", s.countRender("policies", policies)))
	mux.Handle("GET "+site.PoliciesPath+"/{$}", withRequestLogging("policies", s.countRender("policies", policies)))
	mux.Handle("GET /api/games", withRequestLogging("api_games", http.HandlerFunc(s.handleGames)))
	mux.Handle("GET /healthz", withRequestLogging("healthz", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", withRequestLogging("not_found", http.HandlerFunc(s.handleNotFound)))
	return mux
}

func (s *Server) countRender(page string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.PagesRendered.WithLabelValues(page).Inc()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	metrics.PagesRendered.WithLabelValues("home").Inc()
	templ.Handler(site.HomePage(s.content, s.refresher.Games(), s.baseURL)).ServeHTTP(w, r)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, updated := s.refresher.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(site.NewCatalogDocument(games, updated)); err != nil {
		log.Error().Err(err).Msg("Failed to encode catalog response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy, err := s.refresher.Healthy()
	if !healthy {
		msg := "catalog not loaded"
		if err != nil {
			msg = err.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "page not found", http.StatusNotFound)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listener.Addr().String()).Msg("HTTP server listening")
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
