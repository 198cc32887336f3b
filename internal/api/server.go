package api

import (
	"errors"
	"net/http"

	"github.com/movnaglobal/chat-service/internal/chat"
	"github.com/movnaglobal/chat-service/internal/log"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger    // Required
	Chat        *chat.Service // Required
	CORSOrigins []string      // Allowed origins for CORS
	TrustProxy  bool          // Trust X-Forwarded-For (behind reverse proxy)
}

// Server is the JSON API HTTP server.
type Server struct {
	handler http.Handler
}

// NewServer creates an API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	ch := &chatHandler{svc: cfg.Chat, logger: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", ch.handle)

	// Middleware stack (outermost first):
	//   Recovery -> RequestID -> Logging -> CORS -> Routes
	// RequestID precedes Logging so request_id is available in log attributes.
	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(cfg.Logger, cfg.TrustProxy)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(cfg.Logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(cfg.Logger))
	topMux.Handle("/", handler)

	return &Server{handler: topMux}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
