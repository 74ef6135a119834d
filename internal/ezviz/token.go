package ezviz

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"flood-monitor/internal/metrics"
)

const (
	// TokenLifetime - срок жизни токена по документации EZVIZ; ответ облака не читается.
	TokenLifetime = 7 * 24 * time.Hour
	// RefreshSkew - токен обновляется заранее, за это время до истечения.
	RefreshSkew = 5 * time.Minute

	refreshTimeout = 30 * time.Second
)

// Token - токен доступа к облаку EZVIZ
type Token struct {
	Value     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Usable сообщает, можно ли использовать токен в момент now
func (t Token) Usable(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-RefreshSkew))
}

// Authenticator получает новый токен у облака
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// AuthenticatorFunc адаптирует функцию к Authenticator
type AuthenticatorFunc func(ctx context.Context) (string, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context) (string, error) {
	return f(ctx)
}

// TokenOption настраивает TokenCache
type TokenOption func(*TokenCache)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) TokenOption {
	return func(tc *TokenCache) {
		tc.now = now
	}
}

// WithRefreshHook вызывается после каждой попытки обновления токена
func WithRefreshHook(hook func(error)) TokenOption {
	return func(tc *TokenCache) {
		tc.onRefresh = hook
	}
}

// TokenCache хранит токен и обновляет его только когда он устарел.
// Одновременные обновления схлопываются в один запрос.
type TokenCache struct {
	auth      Authenticator
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	onRefresh func(error)

	mu    sync.RWMutex
	token *Token
	group singleflight.Group
}

// NewTokenCache создает пустой кэш
func NewTokenCache(auth Authenticator, logger *zap.Logger, m *metrics.Metrics, opts ...TokenOption) *TokenCache {
	tc := &TokenCache{
		auth:    auth,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// AccessToken возвращает действующий токен, при необходимости запрашивая новый.
// Ошибка аутентификации возвращается как есть, состояние кэша не меняется.
// Отмена ctx прерывает ожидание только этого вызова, общее обновление продолжается.
func (tc *TokenCache) AccessToken(ctx context.Context) (Token, error) {
	if t, ok := tc.usable(); ok {
		return t, nil
	}

	ch := tc.group.DoChan("token", func() (interface{}, error) {
		if t, ok := tc.usable(); ok {
			return t, nil
		}
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return tc.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	}
}

// Current возвращает сохраненный токен без обращения к сети, даже устаревший
func (tc *TokenCache) Current() (Token, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if tc.token == nil {
		return Token{}, false
	}
	return *tc.token, true
}

func (tc *TokenCache) usable() (Token, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if tc.token == nil || !tc.token.Usable(tc.now()) {
		return Token{}, false
	}
	return *tc.token, true
}

func (tc *TokenCache) refresh(ctx context.Context) (Token, error) {
	value, err := tc.auth.Authenticate(ctx)
	tc.metrics.ObserveTokenRefresh(err)
	if tc.onRefresh != nil {
		tc.onRefresh(err)
	}
	if err != nil {
		tc.logger.Error("Failed to get EZVIZ access token", zap.Error(err))
		return Token{}, err
	}

	t := Token{Value: value, ExpiresAt: tc.now().Add(TokenLifetime)}

	tc.mu.Lock()
	tc.token = &t
	tc.mu.Unlock()

	tc.logger.Info("EZVIZ access token refreshed", zap.Time("expires_at", t.ExpiresAt))
	return t, nil
}
