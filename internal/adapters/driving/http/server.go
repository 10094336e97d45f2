package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veris-labs/veris-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService driving.AuthService
	userService driving.UserService

	// Infrastructure
	store Pinger // Active identity store health check
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	Version     string
	CORSOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        8080,
		Version:     "dev",
		CORSOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	userService driving.UserService,
	store Pinger,
) *Server {
	s := &Server{
		router:      http.NewServeMux(),
		version:     cfg.Version,
		authService: authService,
		userService: userService,
		store:       store,
	}

	s.setupRoutes()

	handler := NewRecoveryMiddleware().Handler(
		NewLoggingMiddleware().Handler(
			NewCORSMiddleware(cfg.CORSOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Public endpoints
	s.router.HandleFunc("POST /register/{$}", s.handleRegister)
	s.router.HandleFunc("POST /token", s.handleToken)
	s.router.HandleFunc("GET /users/{$}", s.handleListUsers)

	// Authenticated endpoints
	s.router.Handle("GET /me",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetMe)))
}

// Handler returns the fully wrapped handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
