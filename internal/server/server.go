// Package server exposes the design engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/internal/metrics"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/design"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Server is the HTTP front end for the engine.
type Server struct {
	engine  *design.Engine
	catalog *cable.Catalog
	metrics *metrics.Registry
	port    int
}

// New creates a server. reg may be nil, in which case /metrics is not served.
func New(engine *design.Engine, reg *metrics.Registry, port int) *Server {
	cat := engine.Catalog
	if cat == nil {
		cat = cable.DefaultCatalog()
	}
	return &Server{
		engine:  engine,
		catalog: cat,
		metrics: reg,
		port:    port,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/design", s.handleDesign)
	api.POST("/cable", s.handleCable)
	api.POST("/bess", s.handleBESS)
	api.POST("/finance", s.handleFinance)
	api.POST("/geometry", s.handleGeometry)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.InfoS("Solar planner server starting", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		klog.InfoS("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(2).InfoS("Handled request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

// statusFor maps the engine's error taxonomy to HTTP status codes. Provider
// failures wrap the provider's own error, so they are matched first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, validation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, validation.ErrDomain), errors.Is(err, validation.ErrConvergence):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error, extra gin.H) {
	body := gin.H{"error": err.Error()}
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusFor(err), body)
}
