// Package server exposes the dast renderers over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/derickschaefer/dast/internal/config"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Server wraps the HTTP server, its router and the render cache.
type Server struct {
	cfg        *config.Config
	log        *zap.Logger
	cache      *cache.Cache
	router     *gin.Engine
	httpServer *http.Server
}

// New builds a server from cfg. A nil logger discards logs.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg: cfg,
		log: log,
	}
	if cfg.Render.CacheTTL > 0 {
		s.cache = cache.New(cfg.Render.CacheTTL, 2*cfg.Render.CacheTTL)
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.App.CorsOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, CacheHeader},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", s.healthz)

	v1 := r.Group("/v1")
	v1.Use(limitBody(s.cfg.Render.MaxBodyBytes))
	v1.Use(cacheResponses(s.cache))
	{
		v1.POST("/render/structured-text", s.renderStructuredText)
		v1.POST("/render/image", s.renderImage)
		v1.POST("/render/video", s.renderVideo)
		v1.POST("/seo/head", s.seoHead)
		v1.POST("/placeholder", s.placeholder)
	}
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Stop is called.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
