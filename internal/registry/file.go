package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"flood-monitor/internal/config"
)

type camerasFile struct {
	Cameras []CameraRecord `yaml:"cameras"`
}

type markersFile struct {
	Markers []MapMarker `yaml:"markers"`
}

// Load собирает реестр по конфигурации: из YAML-файлов, если пути заданы,
// иначе из встроенных данных.
func Load(cfg config.RegistryConfig) (*Registry, error) {
	cameras := SampleCameras()
	if cfg.CamerasFile != "" {
		var f camerasFile
		if err := readYAML(cfg.CamerasFile, &f); err != nil {
			return nil, err
		}
		cameras = f.Cameras
	}

	markers := SampleMarkers()
	if cfg.MarkersFile != "" {
		var f markersFile
		if err := readYAML(cfg.MarkersFile, &f); err != nil {
			return nil, err
		}
		markers = f.Markers
	}

	return New(cameras, markers)
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse registry file %s: %w", path, err)
	}
	return nil
}
