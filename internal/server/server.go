package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/log"
)

// Server represents the GitGrade API server
type Server struct {
	Logger  log.Logger
	Config  *cfg.Config
	handler *Handler
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(logger log.Logger, config *cfg.Config, handler *Handler) (*Server, error) {
	if handler == nil {
		return nil, errors.New("server needs a handler")
	}
	return &Server{
		Logger:  logger,
		Config:  config,
		handler: handler,
	}, nil
}

// Routes returns the full middleware chain around the API mux
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)
	return requestID(cors(mux))
}

// Start initializes and starts the HTTP server, blocking until it is stopped
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Config.Server.Port))
	if err != nil {
		return fmt.Errorf("listen failed: %w", err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  seconds(s.Config.Server.ReadTimeoutSec, 15),
		WriteTimeout: seconds(s.Config.Server.WriteTimeoutSec, 120),
		IdleTimeout:  seconds(s.Config.Server.IdleTimeoutSec, 60),
	}

	s.Logger.Info(context.Background(), "Starting API server on %s", ln.Addr())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.Logger.Info(ctx, "Shutting down API server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
