// Package api implements the HTTP surface over the clone service. It is
// thin request/response plumbing: validation, error mapping, and static
// serving of the public downloads directory.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/goclone/internal/clone"
	"github.com/jonesrussell/goclone/internal/config"
	"github.com/jonesrussell/goclone/internal/logger"
)

// Cloner runs clone requests. Implemented by *clone.Service.
type Cloner interface {
	CloneWebsite(ctx context.Context, url string) (*clone.Result, error)
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	log        logger.Interface
}

// NewServer creates the API server with its routes registered.
func NewServer(cfg config.ServerConfig, cloner Cloner, publicDir string, log logger.Interface) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger(log))

	h := &handler{cloner: cloner, log: log}

	engine.GET("/healthz", h.health)
	engine.POST("/api/clone", h.clone)
	engine.Static("/downloads", publicDir)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Handler exposes the route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
