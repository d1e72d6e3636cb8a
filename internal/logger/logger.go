// Package logger provides the leveled line logger used by Lexi.
//
// Every line is written to the stream registered for its level (message,
// log or error) and is prefixed with an optional timestamp and the level
// tag. Long lines can be word-wrapped at a configurable column. Level tags
// are colored when the destination is a terminal.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWrapCount is the column at which lines wrap unless configured.
const DefaultWrapCount = 80

// ErrInvalidLevel is returned when a level name cannot be parsed.
var ErrInvalidLevel = errors.New("invalid log level")

const timestampLayout = "01-02-2006, 15:04:05"

var levelColors = [numLevels]*color.Color{
	LevelMessage: color.New(color.FgCyan),
	LevelLog:     color.New(color.FgBlue),
	LevelError:   color.New(color.FgRed, color.Bold),
}

// Logger writes leveled lines to per-level writers.
// It is safe for concurrent use.
type Logger struct {
	mu sync.Mutex

	enabled   bool
	wrapLines bool
	wrapCount int
	minLevel  Level

	writers  [numLevels]io.Writer
	colored  [numLevels]bool
	showDate [numLevels]bool

	closers []io.Closer
	now     func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriter sets the destination of a single level.
func WithWriter(level Level, w io.Writer) Option {
	return func(l *Logger) {
		if level.valid() {
			l.setWriter(level, w)
		}
	}
}

// WithOutput sends every level to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		for lvl := LevelMessage; lvl < numLevels; lvl++ {
			l.setWriter(lvl, w)
		}
	}
}

// WithMinLevel drops lines below level.
func WithMinLevel(level Level) Option {
	return func(l *Logger) {
		l.minLevel = level
	}
}

// WithWrap configures line wrapping. A count <= 0 keeps the default.
func WithWrap(enabled bool, count int) Option {
	return func(l *Logger) {
		l.wrapLines = enabled
		if count > 0 {
			l.wrapCount = count
		}
	}
}

// WithDates toggles the timestamp prefix for every level.
func WithDates(show bool) Option {
	return func(l *Logger) {
		for i := range l.showDate {
			l.showDate[i] = show
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New creates an enabled Logger writing messages to stdout and log and
// error lines to stderr.
func New(opts ...Option) *Logger {
	l := &Logger{
		enabled:   true,
		wrapLines: true,
		wrapCount: DefaultWrapCount,
		minLevel:  LevelMessage,
		now:       time.Now,
	}
	l.setWriter(LevelMessage, os.Stdout)
	l.setWriter(LevelLog, os.Stderr)
	l.setWriter(LevelError, os.Stderr)
	for i := range l.showDate {
		l.showDate[i] = true
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Logger) setWriter(level Level, w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.writers[level] = w
	l.colored[level] = isTerminal(w)
}

// isTerminal reports whether w is a TTY that should receive color codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writeln formats a line and writes it at level.
func (l *Logger) Writeln(level Level, format string, args ...any) {
	if !level.valid() {
		level = LevelError
	}

	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	l.write(level, text)
}

// Print writes text at level as is, without format processing.
func (l *Logger) Print(level Level, text string) {
	if !level.valid() {
		level = LevelError
	}
	l.write(level, text)
}

func (l *Logger) write(level Level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	if l.wrapLines && l.wrapCount > 0 {
		text = wordwrap.String(text, l.wrapCount)
	}

	var b strings.Builder
	if l.showDate[level] {
		b.WriteString("[")
		b.WriteString(l.now().Format(timestampLayout))
		b.WriteString("]")
	}
	tag := level.String()
	if l.colored[level] {
		tag = levelColors[level].Sprint(tag)
	}
	b.WriteString("[")
	b.WriteString(tag)
	b.WriteString("]: ")
	b.WriteString(text)
	b.WriteString("\n")

	_, _ = io.WriteString(l.writers[level], b.String())
}

// Msg writes a user message line.
func (l *Logger) Msg(format string, args ...any) {
	l.Writeln(LevelMessage, format, args...)
}

// Log writes a diagnostic line.
func (l *Logger) Log(format string, args ...any) {
	l.Writeln(LevelLog, format, args...)
}

// Err writes an error line.
func (l *Logger) Err(format string, args ...any) {
	l.Writeln(LevelError, format, args...)
}

// Enable turns output on and returns the previous state.
func (l *Logger) Enable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.enabled
	l.enabled = true
	return old
}

// Disable turns output off and returns the previous state.
func (l *Logger) Disable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.enabled
	l.enabled = false
	return old
}

// IsEnabled reports whether output is on.
func (l *Logger) IsEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// SetWrapLines toggles word wrapping.
func (l *Logger) SetWrapLines(wrap bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wrapLines = wrap
}

// ShouldWrapLines reports whether word wrapping is on.
func (l *Logger) ShouldWrapLines() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wrapLines
}

// SetWrapCount sets the wrap column. Values <= 0 are ignored.
func (l *Logger) SetWrapCount(count int) {
	if count <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wrapCount = count
}

// WrapCount returns the wrap column.
func (l *Logger) WrapCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wrapCount
}

// SetMinLevel drops lines below level from now on.
func (l *Logger) SetMinLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// RedirectLevelTo sends all future lines of level to w.
func (l *Logger) RedirectLevelTo(level Level, w io.Writer) error {
	if !level.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setWriter(level, w)
	return nil
}

// SetShowDate toggles the timestamp prefix of a single level.
func (l *Logger) SetShowDate(level Level, show bool) {
	if !level.valid() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showDate[level] = show
}

// Flush syncs the writer of level if it supports it.
func (l *Logger) Flush(level Level) error {
	if !level.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	l.mu.Lock()
	w := l.writers[level]
	l.mu.Unlock()

	if s, ok := w.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Close closes any files the logger opened itself.
func (l *Logger) Close() error {
	l.mu.Lock()
	closers := l.closers
	l.closers = nil
	l.mu.Unlock()

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
