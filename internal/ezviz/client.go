// Package ezviz - клиент облачного API EZVIZ (open.ys7.com) с кэшем токена доступа.
package ezviz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"flood-monitor/internal/metrics"
)

const successCode = "200"

// Config - параметры доступа к облаку
type Config struct {
	BaseURL   string
	AppKey    string
	AppSecret string
	Timeout   time.Duration
}

// envelope - общий формат ответа облака
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Client обращается к облаку EZVIZ. Ошибки логируются и возвращаются вызывающему.
type Client struct {
	http    *resty.Client
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	tokens  *TokenCache
}

// NewClient создает клиента вместе с его кэшем токена
func NewClient(cfg Config, logger *zap.Logger, m *metrics.Metrics, opts ...TokenOption) *Client {
	r := resty.New()
	r.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	r.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}

	c := &Client{
		http:    r,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
	c.tokens = NewTokenCache(AuthenticatorFunc(c.requestToken), logger, m, opts...)
	return c
}

// Tokens возвращает кэш токена клиента
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// AccessToken возвращает действующий токен
func (c *Client) AccessToken(ctx context.Context) (Token, error) {
	return c.tokens.AccessToken(ctx)
}

// requestToken выполняет POST /token/get
func (c *Client) requestToken(ctx context.Context) (string, error) {
	data, err := c.post(ctx, "token/get", map[string]string{
		"appKey":    c.cfg.AppKey,
		"appSecret": c.cfg.AppSecret,
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.AccessToken == "" {
		if err == nil {
			err = fmt.Errorf("empty accessToken")
		}
		return "", &TransportError{Endpoint: "token/get", Err: err}
	}
	return payload.AccessToken, nil
}

// post отправляет форму и разбирает конверт ответа.
// При успехе возвращает поле data без изменений.
func (c *Client) post(ctx context.Context, endpoint string, form map[string]string) (json.RawMessage, error) {
	start := time.Now()
	data, err := c.do(ctx, endpoint, form)
	c.metrics.ObserveVendorCall(endpoint, time.Since(start), err)

	if err != nil {
		c.logger.Error("EZVIZ request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, endpoint string, form map[string]string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/" + endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{
			Endpoint: endpoint,
			Status:   resp.StatusCode(),
			Err:      fmt.Errorf("%s", strings.TrimSpace(resp.String())),
		}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Code != successCode {
		return nil, &ApplicationError{Endpoint: endpoint, Code: env.Code, Msg: env.Msg}
	}
	return env.Data, nil
}

// authorized выполняет запрос с токеном доступа
func (c *Client) authorized(ctx context.Context, endpoint string, form map[string]string) (json.RawMessage, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	form["accessToken"] = token.Value
	return c.post(ctx, endpoint, form)
}
