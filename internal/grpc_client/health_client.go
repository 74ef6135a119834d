// Package grpc_client - клиент gRPC health сервиса запущенного flood-monitor.
package grpc_client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultRequestTimeout = 5 * time.Second

// HealthClient опрашивает grpc.health.v1.Health
type HealthClient struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	logger  *zap.Logger
	timeout time.Duration
}

// NewHealthClient создает клиента. Соединение устанавливается лениво при первом вызове.
func NewHealthClient(address string, timeout time.Duration, logger *zap.Logger) (*HealthClient, error) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", address, err)
	}

	logger.Debug("gRPC health client created", zap.String("address", address))

	return &HealthClient{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Close закрывает соединение
func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Check возвращает статус сервиса; пустое имя - общий статус сервера
func (c *HealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		c.logger.Warn("gRPC health check failed",
			zap.String("service", service),
			zap.Error(err))
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %q: %w", service, err)
	}
	return resp.GetStatus(), nil
}

// CheckAll опрашивает несколько сервисов и возвращает статус каждого
func (c *HealthClient) CheckAll(ctx context.Context, services ...string) (map[string]healthpb.HealthCheckResponse_ServingStatus, error) {
	out := make(map[string]healthpb.HealthCheckResponse_ServingStatus, len(services))
	for _, s := range services {
		status, err := c.Check(ctx, s)
		if err != nil {
			return out, err
		}
		out[s] = status
	}
	return out, nil
}
