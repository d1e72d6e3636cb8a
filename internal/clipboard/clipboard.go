// Package clipboard provides the clipboard used by copy and paste commands.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the system clipboard cannot be used.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the operating system clipboard.
type System struct{}

// NewSystem returns the system clipboard, or ErrUnavailable when the
// platform has no clipboard utility installed.
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, ErrUnavailable
	}
	return &System{}, nil
}

// ReadText returns the clipboard's text.
func (*System) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

// WriteText replaces the clipboard's text.
func (*System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Memory is a process-local clipboard.
type Memory struct {
	text string
}

// NewMemory returns a clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	return m.text, nil
}

// WriteText stores text.
func (m *Memory) WriteText(text string) error {
	m.text = text
	return nil
}

// Default returns the system clipboard when available and a Memory
// clipboard otherwise.
func Default() Clipboard {
	if sys, err := NewSystem(); err == nil {
		return sys
	}
	return NewMemory("")
}
