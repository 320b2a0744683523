package metrics

import (
	"testing"
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"depthview/logger"
)

func collectEvents(t *testing.T) *[]Event {
	t.Helper()
	var events []Event
	id := Subscribe(func(ev Event) { events = append(events, ev) })
	t.Cleanup(func() { Unsubscribe(id) })
	return &events
}

func TestSubscribeReturnsUniqueIDs(t *testing.T) {
	first := Subscribe(func(Event) {})
	second := Subscribe(func(Event) {})
	t.Cleanup(func() {
		Unsubscribe(first)
		Unsubscribe(second)
	})

	if first == 0 || second == 0 || first == second {
		t.Fatalf("expected distinct non-zero ids, got %d and %d", first, second)
	}
	if id := Subscribe(nil); id != 0 {
		t.Fatalf("nil subscriber got id %d", id)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	var got int
	id := Subscribe(func(Event) { got++ })
	Emit(nil, Event{Component: "host", Name: "frames_rendered", Value: 1})
	Unsubscribe(id)
	Emit(nil, Event{Component: "host", Name: "frames_rendered", Value: 1})

	if got != 1 {
		t.Fatalf("subscriber saw %d events after unsubscribe, want 1", got)
	}
}

func TestEmitFillsDefaults(t *testing.T) {
	events := collectEvents(t)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = time.Now })

	dims := map[string]string{"sink": "file"}
	Emit(logger.Logger(), Event{
		Component:  "sink",
		Name:       "sink_errors",
		Value:      1,
		Frame:      FrameRef{ID: "f-1", Sequence: 3, Pane: "candle_pane"},
		Dimensions: dims,
	})
	dims["sink"] = "s3"

	if len(*events) != 1 {
		t.Fatalf("expected one event, got %d", len(*events))
	}
	ev := (*events)[0]
	if ev.Kind != Counter || ev.Unit != cwtypes.StandardUnitCount {
		t.Fatalf("defaults not applied: kind=%s unit=%s", ev.Kind, ev.Unit)
	}
	if !ev.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", ev.Timestamp, at)
	}
	if ev.Frame.Sequence != 3 || ev.Frame.Pane != "candle_pane" {
		t.Fatalf("frame context lost: %+v", ev.Frame)
	}
	if ev.Dimensions["sink"] != "file" {
		t.Fatalf("event dimensions share the caller's map: %v", ev.Dimensions)
	}
}

func TestEmitDropsUnnamedEvents(t *testing.T) {
	events := collectEvents(t)

	Emit(nil, Event{Component: "host", Value: 1})

	if len(*events) != 0 {
		t.Fatalf("unnamed event was dispatched: %+v", *events)
	}
}

func TestSeriesKeyIgnoresDimensionOrder(t *testing.T) {
	a := Event{Component: "host", Name: "frames_skipped", Dimensions: map[string]string{"reason": "render", "pane": "p"}}
	b := Event{Component: "host", Name: "frames_skipped", Dimensions: map[string]string{"pane": "p", "reason": "render"}}
	c := Event{Component: "host", Name: "frames_skipped", Dimensions: map[string]string{"reason": "timeout", "pane": "p"}}

	if a.seriesKey() != b.seriesKey() {
		t.Fatalf("keys differ: %q vs %q", a.seriesKey(), b.seriesKey())
	}
	if a.seriesKey() == c.seriesKey() {
		t.Fatalf("distinct dimensions share key %q", a.seriesKey())
	}
	if got := (Event{Component: "host", Name: "frame_bytes"}).seriesKey(); got != "host/frame_bytes" {
		t.Fatalf("seriesKey() = %q", got)
	}
}
