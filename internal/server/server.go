package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// Server serves command language sessions over HTTP and WebSocket
type Server struct {
	httpServer *http.Server
	ws         *WebSocketHandler
	logger     *mdwlog.Logger
	config     Config
	started    atomic.Bool
}

// Config holds server configuration
type Config struct {
	Addr        string
	ReadTimeout time.Duration
	Version     string
	Logger      *mdwlog.Logger
	// AllowedOrigins lists browser origins accepted besides the server's
	// own host
	AllowedOrigins []string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:        "127.0.0.1:8765",
		ReadTimeout: 30 * time.Second,
		Version:     "dev",
	}
}

// New creates a server. Each WebSocket connection gets a session from
// factory.
func New(cfg Config, factory SessionFactory) (*Server, error) {
	if factory == nil {
		return nil, mdwerror.New("session factory is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.New")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.Logger == nil {
		cfg.Logger = mdwlog.GetDefault()
	}
	logger := cfg.Logger.WithField("component", "server")

	s := &Server{
		ws:     NewWebSocketHandler(factory, cfg.Logger, cfg.AllowedOrigins),
		logger: logger,
		config: cfg,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           loggingMiddleware(logger, s.Handler()),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s, nil
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.ws)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"` + s.config.Version + `"}`))
	})
	return mux
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapper.statusCode,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Start serves until the server is stopped
func (s *Server) Start() error {
	s.logger.Info("Starting command server", mdwlog.Fields{"addr": s.config.Addr})
	if !isLoopback(s.config.Addr) {
		s.logger.Warn("Command server reachable from the network", mdwlog.Fields{"addr": s.config.Addr})
	}
	s.started.Store(true)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return mdwerror.Wrap(err, "server failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.Start")
	}
	return nil
}

// isLoopback reports whether addr only listens on the local host
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}
	s.logger.Info("Stopping command server")
	return s.httpServer.Shutdown(ctx)
}
