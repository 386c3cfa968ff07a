package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultOrigin is the scheme the dictionary's web view loads pages from.
const DefaultOrigin = "ifr://localhost"

// Server serves an App over HTTP.
type Server struct {
	app    *App
	engine *gin.Engine
	logger *zap.Logger
}

// New builds the router. Allowed origins come from the configuration the
// app started with.
func New(app *App, logger *zap.Logger) (*Server, error) {
	corsConfig, err := corsConfigFor(app.Services().Config.Server.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(corsConfig))
	engine.Use(permissionsPolicy())

	s := &Server{app: app, engine: engine, logger: logger}

	engine.GET("/", s.lookup)
	engine.GET("/refresh", s.refresh)
	engine.POST("/add_note_to_anki", s.addNote)
	engine.GET("/get_settings", s.getSettings)
	engine.POST("/update_settings", s.updateSettings)
	engine.GET("/audio/:name", s.audioFile)

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func corsConfigFor(origins []string) (cors.Config, error) {
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}

	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	c.CustomSchemas = []string{"ifr://"}
	if err := c.Validate(); err != nil {
		return cors.Config{}, fmt.Errorf("invalid allowed origins: %w", err)
	}
	return c, nil
}

func permissionsPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Permissions-Policy", "clipboard-write=(self)")
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
