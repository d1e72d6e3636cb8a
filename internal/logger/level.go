package logger

import (
	"fmt"
	"strings"
)

// Level selects the output stream a line is written to.
type Level int

const (
	// LevelMessage is for user-facing messages.
	LevelMessage Level = iota
	// LevelLog is for diagnostic output.
	LevelLog
	// LevelError is for failures.
	LevelError

	numLevels = 3
)

// String returns the tag printed in front of every line.
func (l Level) String() string {
	switch l {
	case LevelMessage:
		return "MESSAGE"
	case LevelLog:
		return "LOG"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) valid() bool {
	return l >= LevelMessage && l < numLevels
}

// ParseLevel converts a level name ("message", "log", "error") to a Level.
// Matching is case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "message", "msg":
		return LevelMessage, nil
	case "log", "debug":
		return LevelLog, nil
	case "error", "err":
		return LevelError, nil
	default:
		return LevelMessage, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
