package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/yourusername/othello/pkg/engine"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host            string        // Host to bind to (default "localhost")
	Port            int           // Port to listen on (default 8080)
	ReadTimeout     time.Duration // Read timeout (default 30s)
	WriteTimeout    time.Duration // Write timeout (default 60s, self-play can be slow)
	IdleTimeout     time.Duration // Idle timeout (default 60s)
	ShutdownTimeout time.Duration // Grace period for in-flight requests (default 10s)
	MaxMoveWorkers  int           // Max concurrent move requests (default 100)
	MaxBatchWorkers int           // Max concurrent self-play batches (default 4)
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() ServerConfig {
	pool := DefaultPoolConfig()
	return ServerConfig{
		Host:            "localhost",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxMoveWorkers:  pool.MaxMoveWorkers,
		MaxBatchWorkers: pool.MaxBatchWorkers,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	handlers *Handlers
	pool     *WorkerPool
	server   *http.Server
	version  string
}

// NewServer creates a server for e.
func NewServer(e *engine.Engine, config ServerConfig, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxMoveWorkers:  config.MaxMoveWorkers,
		MaxBatchWorkers: config.MaxBatchWorkers,
	})
	s := &Server{
		config:   config,
		handlers: NewHandlersWithPool(e, version, pool),
		pool:     pool,
		version:  version,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets the SSE handler stream through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack hands the connection to the WebSocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// loggingMiddleware logs every request with its status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type route struct {
	pattern string
	handler http.HandlerFunc
	doc     string
}

func (s *Server) routes() []route {
	h := s.handlers
	return []route{
		{"GET /api/health", h.Health, "Health check"},
		{"POST /api/new", h.NewGame, "Start a game"},
		{"POST /api/move", h.Move, "Play a move and get the engine's reply"},
		{"POST /api/legal", h.Legal, "List legal moves"},
		{"POST /api/best", h.Best, "Strategy's choice and ranked moves"},
		{"GET /api/keyboard", h.KeyboardHandler, "Board as a button grid"},
		{"POST /api/tutor/move", h.Tutor, "Rate a played move"},
		{"POST /api/opening", h.Opening, "Name the opening of a transcript"},
		{"POST /api/selfplay", h.SelfPlay, "Engine-vs-engine batch"},
		{"GET /api/selfplay/stream", h.SelfPlaySSE, "Self-play with SSE progress"},
		{"GET /api/ws", h.WebSocket, "WebSocket for real-time play"},
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		mux.HandleFunc(rt.pattern, rt.handler)
	}
	return corsMiddleware(loggingMiddleware(mux))
}

// Start listens and serves until the server is shut down.
func (s *Server) Start() error {
	log.Printf("Starting Othello API server v%s on %s", s.version, s.server.Addr)
	log.Printf("Endpoints:")
	for _, rt := range s.routes() {
		log.Printf("  %-28s - %s", rt.pattern, rt.doc)
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down within
// ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Printf("Shutting down API server...")
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("API server stopped gracefully")
	return nil
}
