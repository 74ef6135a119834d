package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"flood-monitor/internal/config"
	"flood-monitor/internal/controller"
	"flood-monitor/internal/ezviz"
	"flood-monitor/internal/handler"
	"flood-monitor/internal/metrics"
	"flood-monitor/internal/registry"
)

// EzvizHealthService - имя сервиса облака в grpc.health.v1
const EzvizHealthService = "ezviz"

// Application - основное приложение
type Application struct {
	config *config.Config
	logger *zap.Logger
	health *health.Server
	router http.Handler
	server *http.Server
}

// NewApplicationWithConfig создает новое приложение с конфигурацией
func NewApplicationWithConfig(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	reg, err := registry.Load(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	logger.Info("Camera registry loaded",
		zap.Int("cameras", reg.Len()),
		zap.Int("markers", len(reg.Markers())))

	// Метрики
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		&metrics.RegistryCollector{Registry: reg},
	)
	m := metrics.New(promRegistry)

	// Статус облака в gRPC health обновляется после каждой попытки получить токен
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(EzvizHealthService, healthpb.HealthCheckResponse_UNKNOWN)

	ezvizClient := NewEzvizClient(cfg, logger, m, ezviz.WithRefreshHook(func(err error) {
		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		healthServer.SetServingStatus(EzvizHealthService, status)
	}))

	// Создаем сервисы
	cameraService := controller.NewCameraService(logger, reg)
	ezvizService := controller.NewEzvizService(logger, ezvizClient)
	metrics.RegisterFeedSubscriptions(promRegistry, cameraService.Subscriptions().Count)

	// Создаем хендлеры
	cameraHandler := handler.NewCameraHandler(logger, cameraService)
	ezvizHandler := handler.NewEzvizHandler(logger, ezvizService)
	feedHandler := handler.NewFeedHandler(logger, cameraService, cfg.Feed.Interval, cfg.CORS.AllowedOrigins)

	// Создаем роутер
	router := NewRouter(RouterDeps{
		Cameras:      cameraHandler,
		Ezviz:        ezvizHandler,
		Feed:         feedHandler,
		Metrics:      cfg.Metrics,
		CORS:         cfg.CORS,
		PromRegistry: promRegistry,
	}, logger)

	server := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	return &Application{
		config: cfg,
		logger: logger,
		health: healthServer,
		router: router,
		server: server,
	}, nil
}

// NewEzvizClient создает клиента облака из конфигурации
func NewEzvizClient(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, opts ...ezviz.TokenOption) *ezviz.Client {
	return ezviz.NewClient(ezviz.Config{
		BaseURL:   cfg.Ezviz.BaseURL,
		AppKey:    cfg.Ezviz.AppKey,
		AppSecret: cfg.Ezviz.AppSecret,
		Timeout:   cfg.Ezviz.RequestTimeout,
	}, logger, m, opts...)
}

// GetRouter возвращает роутер
func (app *Application) GetRouter() http.Handler {
	return app.router
}

// HealthServer возвращает gRPC health сервер
func (app *Application) HealthServer() *health.Server {
	return app.health
}
