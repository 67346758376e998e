// Package debughttp serves a small diagnostic HTTP endpoint next to the
// stdio transport. It is off unless an address is configured; nothing in
// the tool surface depends on it.
package debughttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
)

// StatusFunc reports the current session status as a JSON-friendly map.
type StatusFunc func(ctx context.Context) (map[string]any, error)

type Server struct {
	srv    *http.Server
	logger output.LoggerPort
}

func NewServer(addr string, status StatusFunc, logger output.LoggerPort) *Server {
	requestLogger := httplog.NewLogger("mcp-manus-debug", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		info, err := status(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the listener in the background. Listener failures are
// logged, not fatal; the stdio transport keeps serving without it.
func (s *Server) Start() {
	go func() {
		s.logger.Info("debug http listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("debug http server stopped", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
