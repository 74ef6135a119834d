package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flood-monitor/internal/controller"
	"flood-monitor/internal/ezviz"
)

// EzvizHandler отдает API бэкенда /api/ezviz
type EzvizHandler struct {
	logger  *zap.Logger
	service *controller.EzvizServiceImpl
}

// NewEzvizHandler создает новый хендлер
func NewEzvizHandler(
	logger *zap.Logger,
	service *controller.EzvizServiceImpl,
) *EzvizHandler {
	return &EzvizHandler{
		logger:  logger,
		service: service,
	}
}

// RegisterRoutes регистрирует маршруты
func (h *EzvizHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/getAccessToken", h.GetAccessToken)
	router.GET("/health", h.Health)
	router.GET("/hls-url", h.GetHLSURL)

	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.GET("/:serial", h.GetDevice)
		devices.GET("/:serial/cameras", h.ListDeviceCameras)
	}
}

// GetAccessToken возвращает токен в конверте {success, accessToken, expireTime, error}.
// Ошибка облака не превращается в 5xx.
func (h *EzvizHandler) GetAccessToken(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.AccessToken(c.Request.Context()))
}

// Health - проверка состояния
func (h *EzvizHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health())
}

// GetHLSURL возвращает адрес HLS-потока
func (h *EzvizHandler) GetHLSURL(c *gin.Context) {
	serial := c.Query("deviceSerial")
	if serial == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "deviceSerial is required",
		})
		return
	}

	channelNo, err := intQuery(c, "channelNo", ezviz.DefaultChannelNo)
	if err != nil {
		badRequest(c, err)
		return
	}
	expireSeconds, err := intQuery(c, "expireSeconds", ezviz.DefaultExpireSeconds)
	if err != nil {
		badRequest(c, err)
		return
	}

	url, err := h.service.HLSURL(c.Request.Context(), serial, channelNo, expireSeconds)
	if err != nil {
		h.vendorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ListDevices возвращает страницу устройств аккаунта
func (h *EzvizHandler) ListDevices(c *gin.Context) {
	pageStart, err := intQuery(c, "pageStart", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	pageSize, err := intQuery(c, "pageSize", ezviz.DefaultPageSize)
	if err != nil {
		badRequest(c, err)
		return
	}

	data, err := h.service.Devices(c.Request.Context(), pageStart, pageSize)
	if err != nil {
		h.vendorError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// GetDevice возвращает сведения об устройстве
func (h *EzvizHandler) GetDevice(c *gin.Context) {
	data, err := h.service.Device(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.vendorError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ListDeviceCameras возвращает каналы устройства
func (h *EzvizHandler) ListDeviceCameras(c *gin.Context) {
	data, err := h.service.DeviceCameras(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.vendorError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// vendorError переводит ошибку облака в HTTP ответ
func (h *EzvizHandler) vendorError(c *gin.Context, err error) {
	var (
		appErr       *ezviz.ApplicationError
		transportErr *ezviz.TransportError
	)

	switch {
	case errors.Is(err, ezviz.ErrMissingSerial):
		badRequest(c, err)
	case errors.As(err, &appErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "EZVIZ error",
			"message": appErr.Msg,
			"code":    appErr.Code,
		})
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "EZVIZ unavailable",
			"message": err.Error(),
		})
	default:
		h.logger.Error("Unexpected EZVIZ failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"message": err.Error(),
	})
}
