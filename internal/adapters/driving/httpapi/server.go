// Package httpapi serves the document QA pipeline over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Services groups the core services the API exposes.
type Services struct {
	Documents driving.DocumentService
	Chat      driving.ChatService
	Debug     driving.DebugService
}

// Server is the HTTP API server.
type Server struct {
	mu       sync.Mutex
	cfg      domain.ServerSettings
	svc      Services
	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server for the given settings and services.
func NewServer(cfg domain.ServerSettings, svc Services) *Server {
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = domain.DefaultMaxUploadBytes
	}

	s := &Server{cfg: cfg, svc: svc}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /upload/documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /upload/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /upload/documents/{id}/file", s.handleDocumentFile)

	var chat http.Handler = http.HandlerFunc(s.handleChat)
	if s.cfg.ChatRatePerSecond > 0 {
		burst := s.cfg.ChatBurst
		if burst <= 0 {
			burst = 1
		}
		chat = rateLimit(rate.NewLimiter(rate.Limit(s.cfg.ChatRatePerSecond), burst), chat)
	}
	mux.Handle("POST /chat", chat)
	mux.HandleFunc("GET /chat/history", s.handleChatHistory)
	mux.HandleFunc("DELETE /chat/history", s.handleClearHistory)

	mux.HandleFunc("GET /debug/collection-stats", s.handleCollectionStats)
	mux.HandleFunc("GET /debug/retrieval-test", s.handleRetrievalTest)
	mux.HandleFunc("POST /debug/retrieval-test", s.handleRetrievalTest)
	mux.HandleFunc("GET /debug/document-chunks/{id}", s.handleDocumentChunks)

	return recoverer(requestLogger(cors(s.cfg.AllowedOrigins, mux)))
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped: %v", err)
		}
	}()

	logger.Info("Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Run starts the server and blocks until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}
