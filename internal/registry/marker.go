package registry

import (
	"time"
	_ "time/tzdata" // LocalTime не должен зависеть от tzdata в образе

	"github.com/bradfitz/latlong"
	sunrise "github.com/nathan-osman/go-sunrise"
)

// MarkerStreams - видеоисточники маркера на карте
type MarkerStreams struct {
	MP4   string `json:"mp4" yaml:"mp4"`
	MJPEG string `json:"mjpeg" yaml:"mjpeg"`
	HLS   string `json:"hls" yaml:"hls"`
}

// MapMarker - камера, отображаемая на карте
type MapMarker struct {
	ID       int           `json:"id" yaml:"id"`
	CamID    string        `json:"camId" yaml:"camId"`
	Name     string        `json:"name" yaml:"name"`
	Lat      float64       `json:"lat" yaml:"lat"`
	Lng      float64       `json:"lng" yaml:"lng"`
	Status   Status        `json:"status" yaml:"status"`
	Streams  MarkerStreams `json:"streams" yaml:"streams"`
	Snapshot string        `json:"snapshot" yaml:"snapshot"`
}

// TimeZone возвращает имя часового пояса по координатам маркера.
// Пустая строка, если пояс не определен (например, точка в океане).
func (m MapMarker) TimeZone() string {
	return latlong.LookupZoneName(m.Lat, m.Lng)
}

// LocalTime переводит момент времени в часовой пояс маркера, при неудаче - в UTC.
func (m MapMarker) LocalTime(t time.Time) time.Time {
	loc := time.UTC
	if tz := m.TimeZone(); tz != "" {
		if computed, err := time.LoadLocation(tz); err == nil {
			loc = computed
		}
	}
	return t.In(loc)
}

// Daylight возвращает восход и закат в местный день момента t и признак темноты.
// В полярный день или ночь восход и закат нулевые, dark = false.
func (m MapMarker) Daylight(t time.Time) (rise, set time.Time, dark bool) {
	local := m.LocalTime(t)
	rise, set = sunrise.SunriseSunset(m.Lat, m.Lng, local.Year(), local.Month(), local.Day())
	if rise.IsZero() || set.IsZero() {
		return rise, set, false
	}

	rise = rise.In(local.Location())
	set = set.In(local.Location())
	return rise, set, local.Before(rise) || local.After(set)
}
