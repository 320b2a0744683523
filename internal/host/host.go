// Package host drives render passes: it paces frames, rasterises the
// overlay and hands the encoded frames to the configured sinks.
package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"depthview/config"
	"depthview/internal/canvas"
	"depthview/internal/metrics"
	"depthview/internal/overlay"
	"depthview/logger"
)

// SnapshotSource returns the render input of frame seq.
type SnapshotSource func(seq int64) *overlay.Snapshot

// paneView is a view bound to one chart pane.
type paneView interface {
	PaneID() string
}

type Host struct {
	cfg     config.RenderConfig
	view    overlay.View
	pane    string
	source  SnapshotSource
	sinks   []Sink
	limiter *rate.Limiter
	log     *logger.Log

	sequence int64
	now      func() time.Time
}

func New(cfg config.RenderConfig, view overlay.View, source SnapshotSource, sinks ...Sink) *Host {
	var pane string
	if pv, ok := view.(paneView); ok {
		pane = pv.PaneID()
	}
	return &Host{
		cfg:     cfg,
		view:    view,
		pane:    pane,
		source:  source,
		sinks:   sinks,
		limiter: rate.NewLimiter(rate.Limit(cfg.FPS), 1),
		log:     logger.GetLogger(),
		now:     time.Now,
	}
}

// Run renders frames until ctx is cancelled or render.frames frames were
// produced. A frame that fails to render is counted and skipped.
func (h *Host) Run(ctx context.Context) error {
	log := h.log.WithComponent("host")
	log.WithFields(logger.Fields{
		"fps":    h.cfg.FPS,
		"frames": h.cfg.Frames,
		"sinks":  len(h.sinks),
	}).Info("starting render loop")

	for h.cfg.Frames == 0 || h.sequence < int64(h.cfg.Frames) {
		// Wait also fails early when the next slot lies past ctx's deadline.
		if err := h.limiter.Wait(ctx); err != nil {
			log.WithError(err).Info("render loop stopped")
			return nil
		}

		if _, err := h.Step(ctx); err != nil {
			log.WithError(err).Warn("frame skipped")
		}
	}

	log.WithFields(logger.Fields{"frames": h.sequence}).Info("frame budget reached")
	return nil
}

// Step renders one frame and delivers it to every sink. Sink failures are
// logged and do not fail the frame.
func (h *Host) Step(ctx context.Context) (Frame, error) {
	frame, err := h.Render()
	if err != nil {
		metrics.ReportSkippedFrame(h.log, metrics.FrameRef{Sequence: h.sequence, Pane: h.pane}, "render")
		return Frame{}, err
	}

	writeCtx := ctx
	if h.cfg.FrameTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, h.cfg.FrameTimeout)
		defer cancel()
	}

	for _, sink := range h.sinks {
		if err := sink.Write(writeCtx, frame); err != nil {
			metrics.ReportSinkError(h.log, h.frameRef(frame), sink.Name())
			h.log.WithComponent("sink").WithFields(logger.Fields{
				"sink":     sink.Name(),
				"sequence": frame.Sequence,
			}).WithError(err).Warn("failed to write frame")
		}
	}
	return frame, nil
}

// Render runs one pass on a fresh raster and encodes it.
func (h *Host) Render() (Frame, error) {
	start := h.now()
	h.sequence++
	seq := h.sequence

	width := int(math.Ceil(h.view.Width()))
	height := int(math.Ceil(h.view.Height()))
	raster, err := canvas.NewRaster(width, height, h.cfg.Background)
	if err != nil {
		return Frame{}, fmt.Errorf("frame %d: %w", seq, err)
	}

	res := h.view.Draw(raster, h.source(seq))
	if err := raster.Err(); err != nil {
		h.log.WithComponent("host").WithError(err).Warn("frame drawn with an invalid color")
	}

	png, err := raster.EncodePNG()
	if err != nil {
		return Frame{}, fmt.Errorf("frame %d: %w", seq, err)
	}

	frame := Frame{
		ID:       uuid.NewString(),
		Sequence: seq,
		Time:     start,
		Width:    width,
		Height:   height,
		PNG:      png,
		Result:   res,
	}

	elapsed := h.now().Sub(start)
	metrics.ReportFrame(h.log, metrics.FrameStats{
		Frame:      h.frameRef(frame),
		Depth:      res.Depth.Drawn,
		Label:      res.Label.Drawn,
		SkipReason: res.Label.SkipReason,
		Tags:       res.Tags,
		Duration:   elapsed,
		Bytes:      len(png),
	})
	logger.LogPerformanceEntry(h.log.WithComponent("host"), "host", "render_frame", elapsed, logger.Fields{
		"sequence": seq,
		"label":    res.Label.Text,
	})
	return frame, nil
}

func (h *Host) frameRef(frame Frame) metrics.FrameRef {
	return metrics.FrameRef{ID: frame.ID, Sequence: frame.Sequence, Pane: h.pane}
}

// Close closes every sink and joins their errors.
func (h *Host) Close() error {
	var errs []error
	for _, sink := range h.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
