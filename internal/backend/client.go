// Package backend - клиент локального бэкенда (/api/ezviz).
// В отличие от клиента облака ошибки не возвращаются, а сворачиваются в конверт ответа.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:9000/api/ezviz"
	DefaultTimeout = 10 * time.Second
)

// TokenEnvelope - ответ GET /getAccessToken
type TokenEnvelope struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken,omitempty"`
	ExpireTime  int64  `json:"expireTime,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HealthStatus - ответ GET /health
type HealthStatus struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Now      int64  `json:"now,omitempty"` // unix ms
	HasToken bool   `json:"hasToken"`
}

// OK сообщает, что бэкенд ответил status "ok"
func (h HealthStatus) OK() bool {
	return h.Status == "ok"
}

// Client - обертка над HTTP API бэкенда
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient создает клиента. Пустые параметры заменяются значениями по умолчанию.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: r, logger: logger}
}

// GetAccessToken запрашивает токен у бэкенда
func (c *Client) GetAccessToken(ctx context.Context) TokenEnvelope {
	var env TokenEnvelope
	resp, err := c.get(ctx, "/getAccessToken", &env)
	if err != nil {
		c.logger.Error("Failed to get access token from backend", zap.Error(err))
		return TokenEnvelope{Success: false, Error: err.Error()}
	}
	if !env.Success && env.Error == "" && resp.IsError() {
		env.Error = statusError(resp)
	}

	if !env.Success && env.Error == "" {
		env.Error = "backend reported failure"
	}
	return env
}

// errorBody - тело ответа с ошибкой в формате FastAPI
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// statusError описывает не-2xx ответ: код и detail, если бэкенд его прислал
func statusError(resp *resty.Response) string {
	msg := fmt.Sprintf("http status %d", resp.StatusCode())

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || len(body.Detail) == 0 {
		return msg
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		detail = string(body.Detail)
	}
	return msg + ": " + detail
}

// HealthCheck проверяет состояние бэкенда
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	var status HealthStatus
	resp, err := c.get(ctx, "/health", &status)
	if err != nil {
		c.logger.Error("Backend health check failed", zap.Error(err))
		return HealthStatus{Status: "error", Error: err.Error()}
	}

	if status.Status == "" {
		status.Status = "error"
	}
	if !status.OK() && status.Error == "" && resp.IsError() {
		status.Error = statusError(resp)
	}
	if !status.OK() && status.Error == "" {
		status.Error = fmt.Sprintf("backend status %q", status.Status)
	}
	return status
}

func (c *Client) get(ctx context.Context, path string, out interface{}) (*resty.Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}

	// тело с ошибкой может содержать конверт бэкенда
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		if resp.IsError() {
			return nil, errors.New(statusError(resp))
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("Backend returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()))
	}
	return resp, nil
}
