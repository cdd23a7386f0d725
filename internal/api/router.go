package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/phantom-scope/docs"
	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	"github.com/ZanzyTHEbar/phantom-scope/internal/config"
	apperrors "github.com/ZanzyTHEbar/phantom-scope/internal/errors"
	"github.com/ZanzyTHEbar/phantom-scope/internal/middleware"
	"github.com/ZanzyTHEbar/phantom-scope/internal/monitoring"
	"github.com/ZanzyTHEbar/phantom-scope/internal/security"
)

// Server wires the engine into the HTTP surface.
type Server struct {
	cfg         config.ServerConfig
	engine      *analysis.Engine
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	security    *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
	version     string
}

// NewServer creates the HTTP server dependencies. The rate limiter reports
// rejections to metrics.
func NewServer(cfg config.ServerConfig, engine *analysis.Engine, metrics *monitoring.Metrics, logger *monitoring.Logger, version string) *Server {
	sm := security.NewSecurityMiddleware(cfg.Security())
	sm.OnRateLimited(metrics.RecordRateLimited)

	compression := middleware.DefaultCompressionConfig()
	compression.MinSize = cfg.CompressionMin

	return &Server{
		cfg:         cfg,
		engine:      engine,
		metrics:     metrics,
		logger:      logger,
		security:    sm,
		compression: middleware.NewCompressionMiddleware(compression),
		version:     version,
	}
}

// Security exposes the middleware so the caller can run its cleanup loop.
func (s *Server) Security() *security.SecurityMiddleware {
	return s.security
}

// Router builds the gin engine with the full middleware chain.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(s.cfg.Security().TrustedProxies); err != nil {
		s.logger.Warn("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Request IDs first so every later log line and error body carries one.
	r.Use(s.security.RequestID)
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))

	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))
	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.RequestTimeout)

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	if s.cfg.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1", s.compression.Handler())
	v1.GET("/archetypes", s.handleArchetypes)

	analyze := v1.Group("",
		s.security.RateLimitByIP,
		s.security.ValidateContentType,
		s.security.BodyLimit,
	)
	analyze.POST("/analyze", s.handleAnalyze)
	analyze.POST("/team/analyze", s.handleTeamAnalyze)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		// No configured origins: reject every cross-origin request.
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
