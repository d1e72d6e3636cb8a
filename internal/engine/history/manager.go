package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/lexi/internal/logger"
)

// DefaultMaxDepth is the number of entries kept when no depth is configured.
const DefaultMaxDepth = 1000

// beforeStart is the cursor value when nothing can be undone.
const beforeStart = -1

// entry wraps a recorded command with metadata.
type entry struct {
	id        uuid.UUID
	command   Command
	timestamp time.Time
}

func (e *entry) info() EntryInfo {
	return EntryInfo{
		ID:          e.id.String(),
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
	}
}

// Manager records executed commands and walks them for undo and redo.
//
// Entries at or before the cursor can be undone, entries after it can be
// redone. The cursor is beforeStart when the history is empty or fully
// undone.
type Manager struct {
	entries []*entry
	cursor  int

	// group collects commands between BeginGroup and EndGroup
	group *CompoundCommand

	// running is set while a command executes or unexecutes
	running bool

	// Configuration
	maxDepth int
	log      logger.Sink
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxDepth bounds the number of recorded entries. Values <= 0 select
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(m *Manager) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		m.maxDepth = n
	}
}

// WithLogger sets the sink for history diagnostics.
func WithLogger(sink logger.Sink) Option {
	return func(m *Manager) {
		m.log = logger.OrNop(sink)
	}
}

// NewManager creates an empty history.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		cursor:   beforeStart,
		maxDepth: DefaultMaxDepth,
		log:      logger.Nop,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs cmd. On failure the error is returned and the history is
// left unchanged. On success a reversible command is recorded after the
// cursor, discarding any entries that could have been redone. Irreversible
// commands are never recorded.
//
// Commands executed from within another command's Execute or Unexecute are
// run but not recorded; the outer command owns their effect.
func (m *Manager) Execute(cmd Command) error {
	if m.running {
		if err := cmd.Execute(); err != nil {
			return fmt.Errorf("%s: %w", cmd.Description(), err)
		}
		return nil
	}

	if err := m.run(cmd.Execute); err != nil {
		return fmt.Errorf("%s: %w", cmd.Description(), err)
	}
	if !cmd.IsReversible() {
		return nil
	}

	m.truncate()
	if m.group != nil {
		m.group.Add(cmd)
		return nil
	}
	m.push(cmd)
	return nil
}

// run calls fn with the running flag set.
func (m *Manager) run(fn func() error) error {
	prev := m.running
	m.running = true
	defer func() { m.running = prev }()
	return fn()
}

// truncate drops every entry after the cursor.
func (m *Manager) truncate() {
	for i := m.cursor + 1; i < len(m.entries); i++ {
		m.entries[i] = nil
	}
	m.entries = m.entries[:m.cursor+1]
}

// push appends cmd after the cursor and enforces the maximum depth.
func (m *Manager) push(cmd Command) {
	m.truncate()
	m.entries = append(m.entries, &entry{
		id:        uuid.New(),
		command:   cmd,
		timestamp: m.now(),
	})
	m.cursor = len(m.entries) - 1

	if excess := len(m.entries) - m.maxDepth; excess > 0 {
		m.log.Writeln(logger.LevelLog, "history: evicting %d oldest entries (max depth %d)", excess, m.maxDepth)
		for i := 0; i < excess; i++ {
			m.entries[i] = nil
		}
		m.entries = m.entries[excess:]
		m.cursor -= excess
	}
}

// Undo reverses the entry under the cursor and moves the cursor back.
// With nothing to undo, or when called from within a running command, it
// does nothing and returns nil. While a group is open it fails with
// ErrGroupOpen. On failure the cursor stays where it was.
func (m *Manager) Undo() error {
	if m.cursor == beforeStart || m.running {
		return nil
	}
	if m.group != nil {
		return fmt.Errorf("undo: %w: %s", ErrGroupOpen, m.group.Description())
	}

	e := m.entries[m.cursor]
	if !e.command.IsReversible() {
		m.log.Writeln(logger.LevelError, "history: entry %s (%s) is irreversible", e.id, e.command.Description())
		return fmt.Errorf("%w: %s", ErrIrreversibleInHistory, e.command.Description())
	}
	if err := m.run(e.command.Unexecute); err != nil {
		return fmt.Errorf("undo %s: %w", e.command.Description(), err)
	}
	m.cursor--
	return nil
}

// Redo re-executes the entry after the cursor and moves the cursor forward.
// With nothing to redo, or when called from within a running command, it
// does nothing and returns nil. While a group is open it fails with
// ErrGroupOpen. On failure the cursor stays where it was.
func (m *Manager) Redo() error {
	if !m.CanRedo() || m.running {
		return nil
	}
	if m.group != nil {
		return fmt.Errorf("redo: %w: %s", ErrGroupOpen, m.group.Description())
	}

	e := m.entries[m.cursor+1]
	if err := m.run(e.command.Execute); err != nil {
		return fmt.Errorf("redo %s: %w", e.command.Description(), err)
	}
	m.cursor++
	return nil
}

// Clear removes all history and abandons any open group.
func (m *Manager) Clear() {
	m.entries = nil
	m.cursor = beforeStart
	m.group = nil
}

// CanUndo returns true if the entry under the cursor can be undone.
func (m *Manager) CanUndo() bool {
	return m.cursor != beforeStart && m.entries[m.cursor].command.IsReversible()
}

// CanRedo returns true if an entry exists after the cursor.
func (m *Manager) CanRedo() bool {
	return m.cursor+1 < len(m.entries)
}

// UndoCount returns the number of entries at or before the cursor.
func (m *Manager) UndoCount() int {
	return m.cursor + 1
}

// RedoCount returns the number of entries after the cursor.
func (m *Manager) RedoCount() int {
	return len(m.entries) - m.cursor - 1
}

// Len returns the number of recorded entries.
func (m *Manager) Len() int {
	return len(m.entries)
}

// MaxDepth returns the maximum number of recorded entries.
func (m *Manager) MaxDepth() int {
	return m.maxDepth
}

// SetMaxDepth changes the maximum number of recorded entries. If the
// history is larger, the oldest undoable entries are removed first, then
// the redoable entries furthest from the cursor. Redo entries always stay
// adjacent to the current document state.
func (m *Manager) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	m.maxDepth = n

	excess := len(m.entries) - n
	if excess <= 0 {
		return
	}

	front := min(excess, m.cursor+1)
	for i := 0; i < front; i++ {
		m.entries[i] = nil
	}
	m.entries = m.entries[front:]
	m.cursor -= front

	if len(m.entries) > n {
		for i := n; i < len(m.entries); i++ {
			m.entries[i] = nil
		}
		m.entries = m.entries[:n]
	}
	m.log.Writeln(logger.LevelLog, "history: trimmed to %d entries (max depth %d)", len(m.entries), n)
}

// UndoInfo returns the undoable entries, oldest first.
func (m *Manager) UndoInfo() []EntryInfo {
	result := make([]EntryInfo, 0, m.UndoCount())
	for _, e := range m.entries[:m.cursor+1] {
		result = append(result, e.info())
	}
	return result
}

// RedoInfo returns the redoable entries in redo order.
func (m *Manager) RedoInfo() []EntryInfo {
	result := make([]EntryInfo, 0, m.RedoCount())
	for _, e := range m.entries[m.cursor+1:] {
		result = append(result, e.info())
	}
	return result
}

// PeekUndo returns info about the next undo without performing it.
func (m *Manager) PeekUndo() (EntryInfo, bool) {
	if m.cursor == beforeStart {
		return EntryInfo{}, false
	}
	return m.entries[m.cursor].info(), true
}

// PeekRedo returns info about the next redo without performing it.
func (m *Manager) PeekRedo() (EntryInfo, bool) {
	if !m.CanRedo() {
		return EntryInfo{}, false
	}
	return m.entries[m.cursor+1].info(), true
}
