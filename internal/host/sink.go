package host

import (
	"context"
	"time"

	"depthview/internal/overlay"
)

// Frame is one encoded render pass.
type Frame struct {
	ID       string             `json:"id"`
	Sequence int64              `json:"sequence"`
	Time     time.Time          `json:"time"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	PNG      []byte             `json:"-"`
	Result   overlay.PassResult `json:"result"`
}

// Sink receives every frame the host renders. Write is called from the
// host loop only, never concurrently.
type Sink interface {
	Name() string
	Write(ctx context.Context, frame Frame) error
	Close() error
}
