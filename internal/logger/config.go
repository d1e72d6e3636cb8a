package logger

import (
	"fmt"
	"os"

	"github.com/dshills/lexi/internal/config"
)

// FromConfig builds a logger from the logging section of the settings.
// Streams with a filename get their own append-mode file, which Close
// releases.
func FromConfig(cfg config.Logging, opts ...Option) (*Logger, error) {
	l := New(opts...)
	l.wrapLines = cfg.WrapLines
	if cfg.WrapCount > 0 {
		l.wrapCount = cfg.WrapCount
	}
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		l.minLevel = lvl
	}
	l.enabled = cfg.Enabled

	for _, s := range cfg.Streams {
		lvl, err := ParseLevel(s.Level)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		l.showDate[lvl] = s.ShowDate
		if s.Filename == "" {
			continue
		}
		f, err := os.OpenFile(s.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("opening %s log %s: %w", lvl, s.Filename, err)
		}
		l.closers = append(l.closers, f)
		l.setWriter(lvl, f)
	}
	return l, nil
}

// Apply updates a running logger with reloaded settings. Stream
// destinations are left as they are.
func (l *Logger) Apply(cfg config.Logging) error {
	minLevel := LevelMessage
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		minLevel = lvl
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = cfg.Enabled
	l.wrapLines = cfg.WrapLines
	if cfg.WrapCount > 0 {
		l.wrapCount = cfg.WrapCount
	}
	l.minLevel = minLevel
	return nil
}
