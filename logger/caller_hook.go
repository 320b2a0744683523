package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// skippedCallers lists function path fragments that never count as the
// call site of a log line.
var skippedCallers = []string{"sirupsen/logrus", "depthview/logger."}

// callerHook rewrites entry.Caller to the first frame outside logrus and the
// Log/Entry wrappers, so the "file" field points at render code.
type callerHook struct{}

func (h *callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *callerHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(6, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isSkippedCaller(frame.Function) {
			entry.Caller = &frame
			return nil
		}
		if !more {
			return nil
		}
	}
}

func isSkippedCaller(fn string) bool {
	for _, s := range skippedCallers {
		if strings.Contains(fn, s) {
			return true
		}
	}
	return false
}
