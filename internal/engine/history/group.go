package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// BeginGroup starts a command group. Reversible commands executed while
// grouping are recorded as a single CompoundCommand by EndGroup.
// Nested calls are ignored.
func (m *Manager) BeginGroup(name string) {
	if m.group != nil {
		return
	}
	m.group = NewCompoundCommand(name)
}

// EndGroup finishes a command group.
// All commands since BeginGroup are combined into a CompoundCommand.
func (m *Manager) EndGroup() {
	group := m.group
	if group == nil {
		return
	}
	m.group = nil

	if group.IsEmpty() {
		return
	}
	m.push(group)
}

// CancelGroup ends a command group without recording it.
// Note: commands already executed still affect the document!
func (m *Manager) CancelGroup() {
	m.group = nil
}

// IsGrouping returns true if currently in a command group.
func (m *Manager) IsGrouping() bool {
	return m.group != nil
}

// GroupScope provides a convenient way to group commands using defer.
// Usage:
//
//	func doComplexEdit(m *history.Manager) {
//	    defer m.GroupScope("Complex Edit").End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	manager *Manager
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (m *Manager) GroupScope(name string) *GroupScope {
	m.BeginGroup(name)
	return &GroupScope{
		manager: m,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.manager.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope without creating a compound command.
func (g *GroupScope) Cancel() {
	if g.active {
		g.manager.CancelGroup()
		g.active = false
	}
}

// Transaction runs fn within a command group. If fn returns an error the
// commands it executed are undone in reverse order and nothing is
// recorded; rollback failures are joined to fn's error. Otherwise the
// group is recorded as one entry.
func (m *Manager) Transaction(name string, fn func() error) error {
	if m.group != nil {
		return fn()
	}

	m.BeginGroup(name)
	group := m.group
	if err := fn(); err != nil {
		m.CancelGroup()
		if rerr := m.run(group.rollback(len(group.Commands))); rerr != nil {
			return errors.Join(err, fmt.Errorf("rollback %s: %w", name, rerr))
		}
		return err
	}

	m.EndGroup()
	return nil
}

// ExecuteGrouped executes multiple commands as a single undo unit. If one
// fails, the ones already executed are undone.
func (m *Manager) ExecuteGrouped(name string, cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}

	if len(cmds) == 1 {
		return m.Execute(cmds[0])
	}

	return m.Transaction(name, func() error {
		for _, cmd := range cmds {
			if err := m.Execute(cmd); err != nil {
				return err
			}
		}
		return nil
	})
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	id uuid.UUID // entry under the cursor, uuid.Nil before the start
}

// Checkpoint returns a checkpoint at the current history position.
func (m *Manager) Checkpoint() Checkpoint {
	if m.cursor == beforeStart {
		return Checkpoint{}
	}
	return Checkpoint{id: m.entries[m.cursor].id}
}

// index returns the cursor value cp refers to.
func (m *Manager) index(cp Checkpoint) (int, error) {
	if cp.id == uuid.Nil {
		return beforeStart, nil
	}
	for i, e := range m.entries {
		if e.id == cp.id {
			return i, nil
		}
	}
	return 0, ErrUnknownCheckpoint
}

// UndoTo undoes every entry recorded after cp.
func (m *Manager) UndoTo(cp Checkpoint) error {
	target, err := m.index(cp)
	if err != nil {
		return err
	}
	for m.cursor > target {
		if err := m.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoTo redoes entries until cp is under the cursor.
func (m *Manager) RedoTo(cp Checkpoint) error {
	target, err := m.index(cp)
	if err != nil {
		return err
	}
	for m.cursor < target {
		if err := m.Redo(); err != nil {
			return err
		}
	}
	return nil
}
