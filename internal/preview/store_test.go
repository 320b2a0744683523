package preview

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthview/internal/metrics"
)

func TestHistoryLimit(t *testing.T) {
	store := newHistory[metrics.Event](2)
	for i := 0; i < 5; i++ {
		store.add(metrics.Event{Timestamp: time.Unix(int64(i), 0), Name: "frames_rendered", Value: float64(i)})
	}

	snapshot := store.snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, 3.0, snapshot[0].Value)
	assert.Equal(t, 4.0, snapshot[1].Value)
}

func TestLogStoreCapturesEntries(t *testing.T) {
	store := newLogStore(3)
	entry := logrus.NewEntry(logrus.New())
	entry.Time = time.Unix(10, 0)
	entry.Level = logrus.WarnLevel
	entry.Message = "failed to write frame"
	entry.Data = logrus.Fields{"component": "sink", "sink": "s3", "error": errors.New("denied")}

	require.NoError(t, store.Fire(entry))

	snapshot := store.snapshot()
	require.Len(t, snapshot, 1)
	record := snapshot[0]
	assert.Equal(t, "sink", record.Component)
	assert.Equal(t, "warning", record.Level)
	assert.Equal(t, "denied", record.Fields["error"])
	assert.Equal(t, "s3", record.Fields["sink"])
	assert.NotContains(t, record.Fields, "component")

	store.close()
	_ = store.Fire(entry)
	assert.Len(t, store.snapshot(), 1, "closed store must ignore entries")
}
