package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"depthview/config"
)

// FileSink writes frames as PNG files under a directory.
type FileSink struct {
	dir      string
	prefix   string
	keepLast bool
}

func NewFileSink(cfg config.FileOutputConfig) (*FileSink, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "overlay"
	}
	return &FileSink{dir: cfg.Dir, prefix: prefix, keepLast: cfg.KeepLast}, nil
}

func (s *FileSink) Name() string { return "file" }

// Path is where frame seq is written.
func (s *FileSink) Path(seq int64) string {
	if s.keepLast {
		return filepath.Join(s.dir, s.prefix+"-latest.png")
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s-%06d.png", s.prefix, seq))
}

// Write goes through a temp file so readers never see a partial PNG.
func (s *FileSink) Write(_ context.Context, frame Frame) error {
	path := s.Path(frame.Sequence)
	tmp, err := os.CreateTemp(s.dir, ".frame-*")
	if err != nil {
		return fmt.Errorf("create temp frame: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(frame.PNG); err != nil {
		tmp.Close()
		return fmt.Errorf("write frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close frame: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename frame: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error { return nil }
