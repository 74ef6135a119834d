package ezviz

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	DefaultPageSize      = 50
	DefaultChannelNo     = 1
	DefaultExpireSeconds = 3600

	// протокол HLS в /v2/live/address/get
	protocolHLS = 2
)

// DeviceList возвращает страницу устройств аккаунта
func (c *Client) DeviceList(ctx context.Context, pageStart, pageSize int) (json.RawMessage, error) {
	return c.authorized(ctx, "device/list", map[string]string{
		"pageStart": strconv.Itoa(pageStart),
		"pageSize":  strconv.Itoa(pageSize),
	})
}

// CameraList возвращает каналы (камеры) устройства
func (c *Client) CameraList(ctx context.Context, deviceSerial string) (json.RawMessage, error) {
	if deviceSerial == "" {
		return nil, ErrMissingSerial
	}
	return c.authorized(ctx, "device/camera/list", map[string]string{
		"deviceSerial": deviceSerial,
	})
}

// DeviceInfo возвращает сведения об устройстве
func (c *Client) DeviceInfo(ctx context.Context, deviceSerial string) (json.RawMessage, error) {
	if deviceSerial == "" {
		return nil, ErrMissingSerial
	}
	return c.authorized(ctx, "device/info", map[string]string{
		"deviceSerial": deviceSerial,
	})
}

// LiveAddress получает адрес HLS-потока канала устройства
func (c *Client) LiveAddress(ctx context.Context, deviceSerial string, channelNo, expireSeconds int) (string, error) {
	if deviceSerial == "" {
		return "", ErrMissingSerial
	}

	const endpoint = "v2/live/address/get"
	data, err := c.authorized(ctx, endpoint, map[string]string{
		"deviceSerial": deviceSerial,
		"channelNo":    strconv.Itoa(channelNo),
		"protocol":     strconv.Itoa(protocolHLS),
		"expireTime":   strconv.Itoa(expireSeconds),
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.URL == "" {
		if err == nil {
			err = fmt.Errorf("empty url")
		}
		return "", &TransportError{Endpoint: endpoint, Err: err}
	}
	return payload.URL, nil
}
