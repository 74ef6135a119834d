package controller

import (
	"time"

	"go.uber.org/zap"

	"flood-monitor/internal/registry"
	"flood-monitor/internal/view"
)

// CameraView - запись камеры с полями для отображения
type CameraView struct {
	registry.CameraRecord
	StatusText  string `json:"statusText"`
	StatusClass string `json:"statusClass"`
	FloodText   string `json:"floodText,omitempty"`
	FloodClass  string `json:"floodClass,omitempty"`
}

// FloodLevelInfo - строка справочника уровней подтопления
type FloodLevelInfo struct {
	Level   registry.FloodLevel `json:"level"`
	Ordinal int                 `json:"ordinal"`
	Text    string              `json:"text"`
	Class   string              `json:"class"`
}

// MarkerView - маркер карты с локальным временем точки
type MarkerView struct {
	registry.MapMarker
	StatusText string `json:"statusText"`
	TimeZone   string `json:"timeZone"`
	LocalTime  string `json:"localTime"`
	Sunrise    string `json:"sunrise,omitempty"`
	Sunset     string `json:"sunset,omitempty"`
	Dark       bool   `json:"dark"`
}

// CameraServiceImpl - сервис чтения реестра камер
type CameraServiceImpl struct {
	logger   *zap.Logger
	registry *registry.Registry
	subs     *SubscriptionRepository
	now      func() time.Time
}

// NewCameraService создает новый сервис
func NewCameraService(logger *zap.Logger, reg *registry.Registry) *CameraServiceImpl {
	return &CameraServiceImpl{
		logger:   logger,
		registry: reg,
		subs:     NewSubscriptionRepository(),
		now:      time.Now,
	}
}

// List возвращает производное представление реестра
func (s *CameraServiceImpl) List(q view.Query) []CameraView {
	records := view.Derive(s.registry.Cameras(), q)

	s.logger.Debug("Derived camera view",
		zap.String("query", q.Text),
		zap.String("category", string(q.Category)),
		zap.String("sort", string(q.Sort)),
		zap.Int("count", len(records)))

	out := make([]CameraView, 0, len(records))
	for _, rec := range records {
		out = append(out, newCameraView(rec))
	}
	return out
}

// Get возвращает камеру по ID
func (s *CameraServiceImpl) Get(id int) (CameraView, bool) {
	rec, ok := s.registry.Camera(id)
	if !ok {
		return CameraView{}, false
	}
	return newCameraView(rec), true
}

// FloodLevels возвращает справочник уровней в порядке возрастания
func (s *CameraServiceImpl) FloodLevels() []FloodLevelInfo {
	out := make([]FloodLevelInfo, 0, len(registry.FloodLevels))
	for _, l := range registry.FloodLevels {
		out = append(out, FloodLevelInfo{
			Level:   l,
			Ordinal: l.Ordinal(),
			Text:    l.Text(),
			Class:   registry.FloodClass(l, false),
		})
	}
	return out
}

// Markers возвращает маркеры карты с локальным временем и световым днем каждой точки
func (s *CameraServiceImpl) Markers() []MarkerView {
	now := s.now()
	markers := s.registry.Markers()

	out := make([]MarkerView, 0, len(markers))
	for _, m := range markers {
		mv := MarkerView{
			MapMarker:  m,
			StatusText: m.Status.Label(),
			TimeZone:   m.TimeZone(),
			LocalTime:  m.LocalTime(now).Format(time.RFC3339),
		}
		rise, set, dark := m.Daylight(now)
		if !rise.IsZero() {
			mv.Sunrise = rise.Format(time.RFC3339)
			mv.Sunset = set.Format(time.RFC3339)
		}
		mv.Dark = dark
		out = append(out, mv)
	}
	return out
}

// Subscriptions возвращает репозиторий подписок живой ленты
func (s *CameraServiceImpl) Subscriptions() *SubscriptionRepository {
	return s.subs
}

// Registry возвращает реестр камер
func (s *CameraServiceImpl) Registry() *registry.Registry {
	return s.registry
}

func newCameraView(rec registry.CameraRecord) CameraView {
	return CameraView{
		CameraRecord: rec,
		StatusText:   rec.Status.Label(),
		StatusClass:  registry.StatusClass(rec.Status),
		FloodText:    rec.FloodLevel.Text(),
		FloodClass:   registry.FloodClass(rec.FloodLevel, true),
	}
}
