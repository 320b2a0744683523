package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type componentStat struct {
	warns  int64
	errors int64
}

var (
	framesRendered int64
	framesSkipped  int64
	labelsDrawn    int64
	depthDrawn     int64
	components     sync.Map // map[string]*componentStat
)

func statFor(component string) *componentStat {
	v, _ := components.LoadOrStore(component, &componentStat{})
	return v.(*componentStat)
}

func recordWarn(component string) {
	atomic.AddInt64(&statFor(component).warns, 1)
}

func recordError(component string) {
	atomic.AddInt64(&statFor(component).errors, 1)
}

// RecordFrame counts one finished render pass for the runtime report.
func RecordFrame(depth, label bool) {
	atomic.AddInt64(&framesRendered, 1)
	if depth {
		atomic.AddInt64(&depthDrawn, 1)
	}
	if label {
		atomic.AddInt64(&labelsDrawn, 1)
	}
}

// RecordSkippedFrame counts a frame the host dropped before rendering.
func RecordSkippedFrame() {
	atomic.AddInt64(&framesSkipped, 1)
}

// StartReport begins periodic logging of render and host statistics until
// ctx is cancelled.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logReport(log)
			}
		}
	}()
}

func reportFields() Fields {
	perComponent := map[string]map[string]int64{}
	components.Range(func(k, v any) bool {
		cs := v.(*componentStat)
		perComponent[k.(string)] = map[string]int64{
			"warns":  atomic.LoadInt64(&cs.warns),
			"errors": atomic.LoadInt64(&cs.errors),
		}
		return true
	})

	return Fields{
		"frames_rendered": atomic.LoadInt64(&framesRendered),
		"frames_skipped":  atomic.LoadInt64(&framesSkipped),
		"labels_drawn":    atomic.LoadInt64(&labelsDrawn),
		"depth_drawn":     atomic.LoadInt64(&depthDrawn),
		"components":      perComponent,
		"goroutines":      runtime.NumGoroutine(),
	}
}

func logReport(log *Log) {
	fields := reportFields()

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		fields["cpu_percent"] = cpuPercent[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		fields["memory_mb"] = int64(memStats.Used) / 1024 / 1024
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")
}
