package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthview/config"
	"depthview/internal/host"
	"depthview/internal/metrics"
	"depthview/internal/overlay"
	"depthview/logger"
)

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"":                             "0.0.0.0:8080",
		"  :9090  ":                    "0.0.0.0:9090",
		"localhost":                    "localhost:8080",
		"0.0.0.0:80":                   "0.0.0.0:80",
		"[::1]:443":                    "[::1]:443",
		"::1":                          "[::1]:8080",
		"*:8080":                       "0.0.0.0:8080",
		"http://10.0.0.7:8080":         "10.0.0.7:8080",
		"https://10.0.0.7":             "10.0.0.7:8080",
		"http://:7070":                 "0.0.0.0:7070",
		"tcp://localhost:5050":         "localhost:5050",
		"https://preview.example.com/": "preview.example.com:8080",
	}

	for input, want := range cases {
		assert.Equal(t, want, normalizeAddress(input), "normalizeAddress(%q)", input)
	}
}

func TestNewServerDisabled(t *testing.T) {
	srv, err := NewServer(config.PreviewConfig{}, true, logger.Logger())
	require.NoError(t, err)
	assert.Nil(t, srv)
	assert.Empty(t, srv.Address())
}

func TestNewServerNormalizesConfiguredAddress(t *testing.T) {
	srv, err := NewServer(config.PreviewConfig{Enabled: true, Address: ":9000"}, false, logger.Logger())
	require.NoError(t, err)
	defer srv.cleanup()
	assert.Equal(t, "0.0.0.0:9000", srv.Address())
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	srv, err := NewServer(config.PreviewConfig{Enabled: true}, true, logger.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	router, err := srv.buildRouter("depthview")
	require.NoError(t, err)
	return srv, router
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func testFrame(seq int64) host.Frame {
	return host.Frame{
		ID:       "frame-id",
		Sequence: seq,
		Time:     time.Unix(100, 0),
		PNG:      []byte("\x89PNG fake"),
		Result: overlay.PassResult{
			Depth: overlay.DepthResult{Drawn: true, Asks: true, Bids: true},
			Label: overlay.LabelResult{Drawn: true, Text: "101.50"},
		},
	}
}

func TestFrameRoutes(t *testing.T) {
	srv, router := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/frame.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/frame").Code)

	require.NoError(t, srv.Write(context.Background(), testFrame(4)))

	rec := get(t, router, "/frame.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("X-Frame-Sequence"))
	assert.Equal(t, "\x89PNG fake", rec.Body.String())

	rec = get(t, router, "/api/frame")
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Frame struct {
			Sequence int64              `json:"sequence"`
			Result   overlay.PassResult `json:"result"`
		} `json:"frame"`
		Bytes int `json:"bytes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, int64(4), payload.Frame.Sequence)
	assert.Equal(t, "101.50", payload.Frame.Result.Label.Text)
	assert.Equal(t, 9, payload.Bytes)
	assert.NotContains(t, rec.Body.String(), "PNG fake")

	rec = get(t, router, "/api/frames")
	assert.Contains(t, rec.Body.String(), `"sequence":4`)
}

func TestIndexAndMetricsRoutes(t *testing.T) {
	_, router := newTestServer(t)

	rec := get(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "depthview preview")

	rec = get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = get(t, router, "/api/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"metrics"`)
}

func TestMetricEventsReachAPI(t *testing.T) {
	_, router := newTestServer(t)

	metrics.Emit(logger.Logger(), metrics.Event{
		Component:  "sink",
		Name:       "sink_errors",
		Value:      1,
		Frame:      metrics.FrameRef{ID: "frame-7", Sequence: 7, Pane: "candle_pane"},
		Dimensions: map[string]string{"sink": "s3"},
	})

	rec := get(t, router, "/api/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Metrics []metrics.Event `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Metrics)

	last := payload.Metrics[len(payload.Metrics)-1]
	assert.Equal(t, "sink_errors", last.Name)
	assert.Equal(t, metrics.Counter, last.Kind)
	assert.Equal(t, int64(7), last.Frame.Sequence)
	assert.Equal(t, "candle_pane", last.Frame.Pane)
	assert.Equal(t, "s3", last.Dimensions["sink"])
}

func TestMetricsRouteDisabled(t *testing.T) {
	srv, err := NewServer(config.PreviewConfig{Enabled: true}, false, logger.Logger())
	require.NoError(t, err)
	defer srv.Close()

	router, err := srv.buildRouter("depthview")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/metrics").Code)
}

func TestWebsocketStreamsFrames(t *testing.T) {
	srv, router := newTestServer(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, srv.Write(context.Background(), testFrame(1)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, r, err := conn.NextReader()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))
}
