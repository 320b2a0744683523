package host

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/metrics"
	"depthview/internal/overlay"
	"depthview/models"
)

type memorySink struct {
	frames []Frame
	err    error
	closed bool
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Write(_ context.Context, frame Frame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return s.err
}

func testHost(frames int, sinks ...Sink) *Host {
	a := &axis.Linear{Min: 0, Max: 200, Height: 120, W: 80, Primary: true}
	view := overlay.NewYAxisOverlay("candle_pane", a, 120)
	style := config.DefaultStyle()

	source := func(seq int64) *overlay.Snapshot {
		return &overlay.Snapshot{
			Book: models.AsksBidsSnapshot{
				Asks: models.NewOrderBookSide([]models.PriceLevel{{Price: 150, Count: 2}, {Price: 160, Count: 1}}),
				Bids: models.NewOrderBookSide([]models.PriceLevel{{Price: 50, Count: 3}}),
			},
			Style:          &style,
			Crosshair:      &models.CrosshairState{PaneID: "candle_pane", Y: float64(seq * 10)},
			DataList:       []models.KLine{{Close: 100}},
			VisibleData:    []models.KLine{{Close: 100}},
			PricePrecision: 2,
		}
	}

	cfg := config.DefaultConfig().Render
	cfg.FPS = 1000
	cfg.Frames = frames
	return New(cfg, view, source, sinks...)
}

func TestRenderProducesPNG(t *testing.T) {
	h := testHost(1)

	frame, err := h.Render()
	require.NoError(t, err)
	assert.Equal(t, int64(1), frame.Sequence)
	assert.NotEmpty(t, frame.ID)
	assert.Equal(t, 80, frame.Width)
	assert.Equal(t, 120, frame.Height)
	assert.True(t, frame.Result.Depth.Drawn)
	assert.True(t, frame.Result.Label.Drawn)

	img, err := png.Decode(bytes.NewReader(frame.PNG))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
}

func TestRunStopsAtFrameBudget(t *testing.T) {
	sink := &memorySink{}
	h := testHost(3, sink)

	require.NoError(t, h.Run(context.Background()))
	require.Len(t, sink.frames, 3)
	for i, frame := range sink.frames {
		assert.Equal(t, int64(i+1), frame.Sequence)
	}
	assert.NotEqual(t, sink.frames[0].ID, sink.frames[1].ID)
	assert.Equal(t, "183.33", sink.frames[0].Result.Label.Text)
}

func TestRunStopsOnCancel(t *testing.T) {
	sink := &memorySink{}
	h := testHost(0, sink)
	h.cfg.FPS = 50
	h.limiter.SetLimit(50)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, h.Run(ctx))
	assert.NotEmpty(t, sink.frames)
}

func TestStepKeepsGoingWhenSinkFails(t *testing.T) {
	failing := &memorySink{err: errors.New("disk full")}
	ok := &memorySink{}
	h := testHost(1, failing, ok)

	_, err := h.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failing.frames)
	assert.Len(t, ok.frames, 1)
}

func TestStepEventsCarryFrame(t *testing.T) {
	var events []metrics.Event
	id := metrics.Subscribe(func(ev metrics.Event) { events = append(events, ev) })
	t.Cleanup(func() { metrics.Unsubscribe(id) })

	failing := &memorySink{err: errors.New("disk full")}
	h := testHost(1, failing)

	frame, err := h.Step(context.Background())
	require.NoError(t, err)

	names := map[string]metrics.Event{}
	for _, ev := range events {
		names[ev.Name] = ev
		assert.Equal(t, metrics.FrameRef{ID: frame.ID, Sequence: 1, Pane: "candle_pane"}, ev.Frame)
	}
	require.Contains(t, names, "frames_rendered")
	require.Contains(t, names, "sink_errors")
	assert.Equal(t, "memory", names["sink_errors"].Dimensions["sink"])
	assert.Equal(t, float64(len(frame.PNG)), names["frame_bytes"].Value)
}

func TestRenderFailsOnEmptyView(t *testing.T) {
	h := testHost(1)
	h.view = overlay.NewYAxisOverlay("candle_pane", &axis.Linear{}, 0)

	_, err := h.Step(context.Background())
	assert.Error(t, err)
}

func TestCloseJoinsSinkErrors(t *testing.T) {
	good := &memorySink{}
	bad := &memorySink{err: errors.New("boom")}
	h := testHost(1, good, bad)

	err := h.Close()
	assert.ErrorContains(t, err, "close memory sink: boom")
	assert.True(t, good.closed)
	assert.True(t, bad.closed)
}
