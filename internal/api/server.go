// Package api serves the insight engine over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/chat"
	"github.com/blackwell-systems/tablewatch/internal/insight"
)

const (
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Server exposes the engine operations as gin handlers.
type Server struct {
	service       *insight.Service
	responder     *chat.Responder
	defaultFilter analyzer.Filter
	logger        *zap.Logger
	corsOrigins   []string
}

// New creates a Server. Requests without a filter query use defaultFilter.
func New(svc *insight.Service, responder *chat.Responder, defaultFilter analyzer.Filter, logger *zap.Logger) *Server {
	if responder == nil {
		responder = chat.NewResponder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultFilter == "" {
		defaultFilter = analyzer.FilterWeek
	}
	return &Server{
		service:       svc,
		responder:     responder,
		defaultFilter: defaultFilter,
		logger:        logger,
	}
}

// WithCORS allows browser requests from origins. "*" allows any origin;
// no origins leaves CORS off.
func (s *Server) WithCORS(origins ...string) *Server {
	s.corsOrigins = origins
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(corsConfig(s.corsOrigins)))
	}

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/insights", s.insights)
		api.GET("/stats", s.stats)
		api.GET("/predictions/inventory", s.inventoryPredictions)
		api.GET("/recommendations/menu", s.menuRecommendations)
		api.GET("/forecast", s.forecast)
		api.POST("/chat", s.chat)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.ExposeHeaders = []string{requestIDHeader}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// requestID echoes the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request at info level.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			return
		}
		logger.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
