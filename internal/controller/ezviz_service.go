package controller

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"flood-monitor/internal/backend"
	"flood-monitor/internal/ezviz"
)

// EzvizServiceImpl отдает данные облака EZVIZ через кэш токена
type EzvizServiceImpl struct {
	logger *zap.Logger
	client *ezviz.Client
	now    func() time.Time
}

// NewEzvizService создает новый сервис
func NewEzvizService(logger *zap.Logger, client *ezviz.Client) *EzvizServiceImpl {
	return &EzvizServiceImpl{
		logger: logger,
		client: client,
		now:    time.Now,
	}
}

// AccessToken возвращает токен в конверте бэкенда; ошибка облака попадает в поле error
func (s *EzvizServiceImpl) AccessToken(ctx context.Context) backend.TokenEnvelope {
	token, err := s.client.AccessToken(ctx)
	if err != nil {
		return backend.TokenEnvelope{Success: false, Error: err.Error()}
	}
	return backend.TokenEnvelope{
		Success:     true,
		AccessToken: token.Value,
		ExpireTime:  token.ExpiresAt.UnixMilli(),
	}
}

// Health сообщает состояние сервиса без обращения к облаку
func (s *EzvizServiceImpl) Health() backend.HealthStatus {
	token, ok := s.client.Tokens().Current()
	return backend.HealthStatus{
		Status:   "ok",
		Now:      s.now().UnixMilli(),
		HasToken: ok && token.Usable(s.now()),
	}
}

// HLSURL получает адрес HLS-потока канала
func (s *EzvizServiceImpl) HLSURL(ctx context.Context, deviceSerial string, channelNo, expireSeconds int) (string, error) {
	if channelNo <= 0 {
		channelNo = ezviz.DefaultChannelNo
	}
	if expireSeconds <= 0 {
		expireSeconds = ezviz.DefaultExpireSeconds
	}

	s.logger.Info("Requesting HLS address",
		zap.String("device_serial", deviceSerial),
		zap.Int("channel_no", channelNo))

	return s.client.LiveAddress(ctx, deviceSerial, channelNo, expireSeconds)
}

// Devices возвращает страницу устройств
func (s *EzvizServiceImpl) Devices(ctx context.Context, pageStart, pageSize int) (json.RawMessage, error) {
	if pageStart < 0 {
		pageStart = 0
	}
	if pageSize <= 0 {
		pageSize = ezviz.DefaultPageSize
	}
	return s.client.DeviceList(ctx, pageStart, pageSize)
}

// DeviceCameras возвращает каналы устройства
func (s *EzvizServiceImpl) DeviceCameras(ctx context.Context, deviceSerial string) (json.RawMessage, error) {
	return s.client.CameraList(ctx, deviceSerial)
}

// Device возвращает сведения об устройстве
func (s *EzvizServiceImpl) Device(ctx context.Context, deviceSerial string) (json.RawMessage, error) {
	return s.client.DeviceInfo(ctx, deviceSerial)
}
