package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (default ":4000").
	Addr string

	// Mode selects the logging profile ("prod" or development).
	Mode string

	// StageDelay overrides the simulated build stage delay.
	StageDelay time.Duration

	// Stores. When nil the caller must set them before New.
	Fabrics       driven.FabricStore
	Conversations driven.ConversationStore
	Feedback      driven.FeedbackStore

	// Credentials defaults to environment-backed lookup.
	Credentials CredentialSource
}

// Server is the fabric backend service.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	builder *Builder
	log     *Logger
}

// New assembles the server from its stores and configuration.
func New(cfg Config, log *Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":4000"
	}
	if cfg.Credentials == nil {
		cfg.Credentials = EnvCredentials{}
	}
	if cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	builder := NewBuilder(cfg.Fabrics, log, cfg.StageDelay)

	engine := NewRouter(RouterConfig{
		FabricHandler:     NewFabricHandler(log, cfg.Fabrics, builder, cfg.Credentials),
		ChatHandler:       NewChatHandler(log, cfg.Fabrics, cfg.Conversations, cfg.Feedback),
		ConnectionHandler: NewConnectionHandler(log, cfg.Credentials),
		FabricStore:       cfg.Fabrics,
	})

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		builder: builder,
		log:     log,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until the context is cancelled, then drains running builds.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("backend listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.builder.Close()
	return nil
}
