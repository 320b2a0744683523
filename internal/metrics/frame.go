package metrics

import (
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"depthview/logger"
)

// FrameStats describes one frame the host finished.
type FrameStats struct {
	Frame      FrameRef
	Depth      bool
	Label      bool
	SkipReason string
	Tags       int
	Duration   time.Duration
	Bytes      int
}

// events lists the samples a finished frame contributes.
func (s FrameStats) events() []Event {
	return []Event{
		{Component: "host", Name: "frames_rendered", Kind: Counter, Value: 1, Unit: cwtypes.StandardUnitCount, Frame: s.Frame},
		{Component: "host", Name: "render_duration_ms", Kind: Gauge, Value: float64(s.Duration.Microseconds()) / 1000, Unit: cwtypes.StandardUnitMilliseconds, Frame: s.Frame},
		{Component: "host", Name: "frame_bytes", Kind: Gauge, Value: float64(s.Bytes), Unit: cwtypes.StandardUnitBytes, Frame: s.Frame},
		{Component: "host", Name: "frame_tags", Kind: Gauge, Value: float64(s.Tags), Unit: cwtypes.StandardUnitCount, Frame: s.Frame},
	}
}

// ReportFrame updates the Prometheus series and emits the frame events.
func ReportFrame(log *logger.Log, stats FrameStats) {
	Init()

	framesTotal.WithLabelValues("rendered").Inc()
	renderSeconds.Observe(stats.Duration.Seconds())
	if stats.Label {
		labelsTotal.WithLabelValues("drawn").Inc()
	} else {
		labelsTotal.WithLabelValues(stats.SkipReason).Inc()
	}
	logger.RecordFrame(stats.Depth, stats.Label)

	for _, ev := range stats.events() {
		Emit(log, ev)
	}
}

// ReportSkippedFrame counts a frame that failed before any sink saw it.
func ReportSkippedFrame(log *logger.Log, frame FrameRef, reason string) {
	Init()

	framesTotal.WithLabelValues("skipped").Inc()
	logger.RecordSkippedFrame()
	Emit(log, Event{
		Component:  "host",
		Name:       "frames_skipped",
		Kind:       Counter,
		Value:      1,
		Frame:      frame,
		Dimensions: map[string]string{"reason": reason},
	})
}

// ReportSinkError counts a failed write of frame on the named sink.
func ReportSinkError(log *logger.Log, frame FrameRef, sink string) {
	Init()

	sinkErrors.WithLabelValues(sink).Inc()
	Emit(log, Event{
		Component:  "sink",
		Name:       "sink_errors",
		Kind:       Counter,
		Value:      1,
		Frame:      frame,
		Dimensions: map[string]string{"sink": sink},
	})
}
