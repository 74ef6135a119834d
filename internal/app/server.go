package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Задаются при сборке через -ldflags "-X flood-monitor/internal/app.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const shutdownTimeout = 10 * time.Second

// Run запускает dual сервер (HTTP + gRPC) и ждет сигнала завершения
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	return app.Serve(ctx)
}

// Serve обслуживает HTTP и gRPC до отмены ctx или ошибки одного из серверов
func (app *Application) Serve(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", app.server.Addr, err)
	}
	grpcAddr := net.JoinHostPort(app.config.Host, app.config.GRPCPort)
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("listen grpc %s: %w", grpcAddr, err)
	}

	return app.serveListeners(ctx, httpLis, grpcLis)
}

func (app *Application) serveListeners(ctx context.Context, httpLis, grpcLis net.Listener) error {
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, app.health)
	reflection.Register(grpcServer)

	// Каналы для graceful shutdown
	httpErrChan := make(chan error, 1)
	grpcErrChan := make(chan error, 1)

	// Запуск HTTP сервера
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", "http://"+httpLis.Addr().String()))

		if err := app.server.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrChan <- err
		}
	}()

	// Запуск gRPC сервера
	go func() {
		app.logger.Info("Starting gRPC server",
			zap.String("address", grpcLis.Addr().String()))

		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			grpcErrChan <- err
		}
	}()

	app.logger.Info("Service started",
		zap.String("http", httpLis.Addr().String()),
		zap.String("grpc", grpcLis.Addr().String()),
		zap.Bool("metrics", app.config.Metrics.Enabled),
		zap.Bool("grpc_reflection", true))

	// Ожидание сигнала завершения
	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutdown signal received")
	case err := <-httpErrChan:
		app.logger.Error("HTTP server failed", zap.Error(err))
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-grpcErrChan:
		app.logger.Error("gRPC server failed", zap.Error(err))
		runErr = fmt.Errorf("grpc server: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.logger.Info("Stopping servers")
	app.health.Shutdown()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}

	app.logger.Info("Service stopped")
	return runErr
}
