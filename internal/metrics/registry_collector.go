package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"flood-monitor/internal/registry"
)

var (
	camerasDesc = prometheus.NewDesc(
		namespace+"_cameras_total", "Cameras grouped by status.", []string{"status"}, nil,
	)
	floodedDesc = prometheus.NewDesc(
		namespace+"_cameras_flooded_total", "Cameras grouped by flood level.", []string{"level"}, nil,
	)
	ordinalDesc = prometheus.NewDesc(
		namespace+"_camera_flood_ordinal", "Flood level ordinal per camera (0 = no data).", []string{"id", "name"}, nil,
	)
)

// RegistryCollector отдает состояние реестра камер при каждом сборе
type RegistryCollector struct {
	Registry *registry.Registry
}

func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- camerasDesc
	ch <- floodedDesc
	ch <- ordinalDesc
}

func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	statusCounts := map[registry.Status]float64{
		registry.StatusOnline:      0,
		registry.StatusOffline:     0,
		registry.StatusMaintenance: 0,
	}
	levelCounts := make(map[registry.FloodLevel]float64, len(registry.FloodLevels))
	for _, l := range registry.FloodLevels {
		levelCounts[l] = 0
	}

	for _, cam := range c.Registry.Cameras() {
		statusCounts[cam.Status]++
		if cam.FloodLevel.Present() {
			levelCounts[cam.FloodLevel]++
		}
		ch <- prometheus.MustNewConstMetric(ordinalDesc, prometheus.GaugeValue,
			float64(cam.FloodLevel.Ordinal()), strconv.Itoa(cam.ID), cam.Name)
	}

	for st, cnt := range statusCounts {
		ch <- prometheus.MustNewConstMetric(camerasDesc, prometheus.GaugeValue, cnt, string(st))
	}
	for l, cnt := range levelCounts {
		ch <- prometheus.MustNewConstMetric(floodedDesc, prometheus.GaugeValue, cnt, string(l))
	}
}
