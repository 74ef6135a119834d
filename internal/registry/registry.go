// Package registry хранит неизменяемый список камер и маркеров карты,
// загружаемый один раз при старте приложения.
package registry

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrUnknownFloodLevel = errors.New("unknown flood level")
	ErrUnknownStatus     = errors.New("unknown status")
)

// Registry - реестр камер (только чтение)
type Registry struct {
	cameras []CameraRecord
	index   map[int]int
	markers []MapMarker
}

// New проверяет инварианты и создает реестр.
// Входные срезы копируются, дальнейшие изменения вызывающей стороны не влияют на реестр.
func New(cameras []CameraRecord, markers []MapMarker) (*Registry, error) {
	r := &Registry{
		cameras: make([]CameraRecord, 0, len(cameras)),
		index:   make(map[int]int, len(cameras)),
		markers: make([]MapMarker, 0, len(markers)),
	}

	for _, c := range cameras {
		if _, exists := r.index[c.ID]; exists {
			return nil, fmt.Errorf("%w: camera %d", ErrDuplicateID, c.ID)
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		r.index[c.ID] = len(r.cameras)
		r.cameras = append(r.cameras, c.Clone())
	}

	seen := make(map[int]struct{}, len(markers))
	for _, m := range markers {
		if _, exists := seen[m.ID]; exists {
			return nil, fmt.Errorf("%w: marker %d", ErrDuplicateID, m.ID)
		}
		if !m.Status.Valid() {
			return nil, fmt.Errorf("%w: marker %d has status %q", ErrUnknownStatus, m.ID, m.Status)
		}
		seen[m.ID] = struct{}{}
		r.markers = append(r.markers, m)
	}

	return r, nil
}

// Cameras возвращает копию списка камер в исходном порядке
func (r *Registry) Cameras() []CameraRecord {
	out := make([]CameraRecord, len(r.cameras))
	for i, c := range r.cameras {
		out[i] = c.Clone()
	}
	return out
}

// Camera ищет камеру по ID
func (r *Registry) Camera(id int) (CameraRecord, bool) {
	i, ok := r.index[id]
	if !ok {
		return CameraRecord{}, false
	}
	return r.cameras[i].Clone(), true
}

// Markers возвращает копию списка маркеров карты
func (r *Registry) Markers() []MapMarker {
	out := make([]MapMarker, len(r.markers))
	copy(out, r.markers)
	return out
}

// Len - количество камер
func (r *Registry) Len() int {
	return len(r.cameras)
}
