package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"flood-monitor/internal/config"
	"flood-monitor/internal/handler"
)

// RequestIDHeader - заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// RouterDeps - зависимости роутера
type RouterDeps struct {
	Cameras      *handler.CameraHandler
	Ezviz        *handler.EzvizHandler
	Feed         *handler.FeedHandler
	Metrics      config.MetricsConfig
	CORS         config.CORSConfig
	PromRegistry *prometheus.Registry
}

// NewRouter создает новый роутер с настройкой маршрутов
func NewRouter(deps RouterDeps, logger *zap.Logger) http.Handler {
	// Режим Gin
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.Info("HTTP Request",
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.String("request_id", param.Request.Header.Get(RequestIDHeader)),
			)
			return ""
		},
	}))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "flood-monitor",
			"version": Version,
			"time":    time.Now().Unix(),
		})
	})

	if deps.Metrics.Enabled && deps.PromRegistry != nil {
		path := deps.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{})))
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		deps.Cameras.RegisterRoutes(apiV1)
	}

	// API бэкенда EZVIZ
	deps.Ezviz.RegisterRoutes(router.Group("/api/ezviz"))

	// WebSocket
	deps.Feed.RegisterRoutes(router.Group("/ws"))

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
			"suggestions": []string{
				"Check /health for service status",
				"Check /api/v1/cameras for the camera list",
				"Check /api/ezviz/health for the EZVIZ backend",
			},
		})
	})

	return corsHandler(deps.CORS).Handler(router)
}

// corsHandler настраивает CORS
func corsHandler(cfg config.CORSConfig) *cors.Cors {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
}

// requestIDMiddleware присваивает запросу X-Request-ID, если клиент его не передал
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
