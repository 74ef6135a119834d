package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flood-monitor/internal/controller"
	"flood-monitor/internal/view"
)

// CameraHandler обрабатывает HTTP запросы к реестру камер
type CameraHandler struct {
	logger  *zap.Logger
	service *controller.CameraServiceImpl
}

// NewCameraHandler создает новый хендлер
func NewCameraHandler(
	logger *zap.Logger,
	service *controller.CameraServiceImpl,
) *CameraHandler {
	return &CameraHandler{
		logger:  logger,
		service: service,
	}
}

// RegisterRoutes регистрирует маршруты
func (h *CameraHandler) RegisterRoutes(router *gin.RouterGroup) {
	cameras := router.Group("/cameras")
	{
		cameras.GET("", h.ListCameras)
		cameras.GET("/:id", h.GetCamera)
	}

	router.GET("/flood-levels", h.GetFloodLevels)
	router.GET("/map/markers", h.GetMarkers)
}

// ListCameras возвращает отфильтрованный и отсортированный список камер
func (h *CameraHandler) ListCameras(c *gin.Context) {
	q, err := queryFromRequest(c)
	if err != nil {
		h.logger.Warn("Invalid camera query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"message": err.Error(),
		})
		return
	}

	cameras := h.service.List(q)
	c.JSON(http.StatusOK, gin.H{
		"cameras": cameras,
		"count":   len(cameras),
		"query": gin.H{
			"q":      q.Text,
			"filter": q.Category,
			"sort":   sortName(q.Sort),
		},
		"timestamp": time.Now().Unix(),
	})
}

// GetCamera возвращает камеру по ID
func (h *CameraHandler) GetCamera(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid camera id",
			"message": err.Error(),
		})
		return
	}

	camera, ok := h.service.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Camera not found",
			"message": "No camera with id " + c.Param("id"),
		})
		return
	}

	c.JSON(http.StatusOK, camera)
}

// GetFloodLevels возвращает справочник уровней подтопления
func (h *CameraHandler) GetFloodLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"levels": h.service.FloodLevels(),
	})
}

// GetMarkers возвращает маркеры карты
func (h *CameraHandler) GetMarkers(c *gin.Context) {
	markers := h.service.Markers()
	c.JSON(http.StatusOK, gin.H{
		"markers": markers,
		"count":   len(markers),
	})
}

// queryFromRequest собирает параметры представления из ?q=&filter=&sort=
func queryFromRequest(c *gin.Context) (view.Query, error) {
	return view.ParseQuery(c.Query("q"), c.Query("filter"), c.Query("sort"))
}

func sortName(s view.SortOrder) string {
	if s == view.SortNone {
		return "none"
	}
	return string(s)
}
