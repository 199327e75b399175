// Package api exposes the trading journal over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"trading-journal/internal/journal"
	"trading-journal/internal/settings"
)

// Server handles HTTP API requests.
type Server struct {
	service        *journal.Service
	themes         *settings.ThemeStore
	logger         zerolog.Logger
	allowedOrigins []string
}

// NewServer creates a new API server instance.
func NewServer(service *journal.Service, themes *settings.ThemeStore, logger zerolog.Logger, allowedOrigins []string) *Server {
	return &Server{
		service:        service,
		themes:         themes,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// Handler returns the routed HTTP handler, wrapped with CORS for the local
// frontend.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /trades", s.handleCreateTrade)
	mux.HandleFunc("GET /trades", s.handleListTrades)
	mux.HandleFunc("GET /trades/{id}", s.handleGetTrade)
	mux.HandleFunc("PUT /trades/{id}", s.handleUpdateTrade)
	mux.HandleFunc("DELETE /trades/{id}", s.handleDeleteTrade)

	mux.HandleFunc("POST /ai/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /ai/insights", s.handleInsights)
	mux.HandleFunc("POST /chat", s.handleChat)

	mux.HandleFunc("GET /settings/theme", s.handleGetTheme)
	mux.HandleFunc("POST /settings/theme", s.handleSetTheme)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.cors(mux)
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // coach calls can be slow
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// cors allows the configured browser origins to call the API.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range s.allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				break
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
