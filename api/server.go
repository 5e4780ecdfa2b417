package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Aidin1998/apishape/api/exception"
	"github.com/Aidin1998/apishape/api/handlers"
	"github.com/Aidin1998/apishape/api/responses"
	"github.com/Aidin1998/apishape/common/apiutil"
	"github.com/Aidin1998/apishape/internal/config"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// RouteRegistrar mounts application routes on the /api/v1 group
type RouteRegistrar func(*gin.RouterGroup)

// Server represents the API server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	logger     *zap.Logger
	httpServer *http.Server
}

// NewServer creates an API server whose every route answers with the
// response envelope. Outermost middleware first:
//
//	trace id -> access log -> recovery -> metrics -> otel span -> CORS ->
//	fault reporter -> response shaper -> exception normalizer -> handler
//
// Stages before the normalizer only see errors it left in c.Errors, i.e.
// unclassified faults.
func NewServer(cfg *config.Config, logger *zap.Logger, registrars ...RouteRegistrar) *Server {
	server := &Server{
		cfg:    cfg,
		logger: logger,
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(apiutil.TraceIDMiddleware())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(apiutil.MetricsMiddleware())
	router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", apiutil.TraceIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.TraceIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(apiutil.FaultReporter())
	router.Use(responses.Shape(logger))
	router.Use(exception.New(logger, exception.WithDevelopment(cfg.IsDevelopment())).Middleware())

	router.NoRoute(handlers.NoRoute())
	router.NoMethod(handlers.NoMethod())

	server.router = router
	server.registerRoutes(registrars)
	server.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("addr", s.cfg.Server.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes(registrars []RouteRegistrar) {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.GET("/health", handlers.Health(s.cfg.Environment))

	for _, register := range registrars {
		register(v1)
	}
}
