// Registers:
//
//	#depthview_frames_total{result}
//	#depthview_labels_total{outcome}
//	#depthview_render_seconds
//	#depthview_sink_errors_total{sink}
//	#go_* and process_* system metrics
//
// on a private registry served by Handler.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once          sync.Once
	registry      *prometheus.Registry
	framesTotal   *prometheus.CounterVec
	labelsTotal   *prometheus.CounterVec
	renderSeconds prometheus.Histogram
	sinkErrors    *prometheus.CounterVec
)

func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		framesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depthview_frames_total",
				Help: "Frames handled by the host, by result",
			},
			[]string{"result"},
		)

		labelsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depthview_labels_total",
				Help: "Crosshair labels drawn or skipped, by outcome",
			},
			[]string{"outcome"},
		)

		renderSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "depthview_render_seconds",
			Help:    "Time spent drawing and encoding one frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		})

		sinkErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depthview_sink_errors_total",
				Help: "Failed frame writes, by sink",
			},
			[]string{"sink"},
		)

		registry.MustRegister(framesTotal, labelsTotal, renderSeconds, sinkErrors)
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
