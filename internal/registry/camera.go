package registry

import (
	"fmt"
	"strings"
)

// Status - состояние камеры, задается извне и здесь не меняется
type Status string

const (
	StatusOnline      Status = "online"
	StatusOffline     Status = "offline"
	StatusMaintenance Status = "maintenance"
)

var statusLabels = map[Status]string{
	StatusOnline:      "在线",
	StatusOffline:     "离线",
	StatusMaintenance: "维护中",
}

// Label возвращает локализованную подпись статуса
func (s Status) Label() string {
	return statusLabels[s]
}

// Valid сообщает, входит ли статус в закрытый набор значений
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// UnmarshalText принимает как коды статусов, так и локализованные подписи
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus разбирает код ("online") или подпись ("在线") статуса
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	st := Status(strings.ToLower(v))
	if st.Valid() {
		return st, nil
	}
	for code, label := range statusLabels {
		if label == v {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

// StatusClass возвращает CSS-класс для статуса
func StatusClass(s Status) string {
	if !s.Valid() {
		return ""
	}
	return "status-" + string(s)
}

// Analysis - результаты анализа кадра в точке наблюдения.
// Значения приходят строками и не разбираются.
type Analysis struct {
	WaterDepth         string `json:"waterDepth" yaml:"waterDepth"`
	WaterDepthChange   string `json:"waterDepthChange" yaml:"waterDepthChange"`
	FloodRisk          string `json:"floodRisk" yaml:"floodRisk"`
	RiskDescription    string `json:"riskDescription" yaml:"riskDescription"`
	TrafficStatus      string `json:"trafficStatus" yaml:"trafficStatus"`
	TrafficDescription string `json:"trafficDescription" yaml:"trafficDescription"`
	Rainfall           string `json:"rainfall" yaml:"rainfall"`
}

// StreamSources - необязательные источники видео камеры
type StreamSources struct {
	MJPEGURL string `json:"mjpegUrl,omitempty" yaml:"mjpegUrl"`
	HLSURL   string `json:"hlsUrl,omitempty" yaml:"hlsUrl"`
	WSURL    string `json:"wsUrl,omitempty" yaml:"wsUrl"`
	Thumb    string `json:"thumb,omitempty" yaml:"thumb"`
}

// CameraRecord - запись о камере наблюдения
type CameraRecord struct {
	ID           int            `json:"id" yaml:"id"`
	CamID        string         `json:"camId,omitempty" yaml:"camId"`
	Name         string         `json:"name" yaml:"name"`
	Location     string         `json:"location" yaml:"location"`
	Status       Status         `json:"status" yaml:"status"`
	FloodLevel   FloodLevel     `json:"floodLevel" yaml:"floodLevel"`
	DeviceSerial string         `json:"deviceSerial,omitempty" yaml:"deviceSerial"`
	Streams      *StreamSources `json:"streams,omitempty" yaml:"streams"`
	Analysis     Analysis       `json:"analysis" yaml:"analysis"`
}

// Clone возвращает независимую копию записи
func (c CameraRecord) Clone() CameraRecord {
	if c.Streams != nil {
		s := *c.Streams
		c.Streams = &s
	}
	return c
}

func (c CameraRecord) validate() error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: camera %d has status %q", ErrUnknownStatus, c.ID, c.Status)
	}
	if !c.FloodLevel.Valid() {
		return fmt.Errorf("%w: camera %d has flood level %q", ErrUnknownFloodLevel, c.ID, c.FloodLevel)
	}
	return nil
}
