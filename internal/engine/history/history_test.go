package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lexi/internal/engine/document"
)

var errBoom = errors.New("boom")

// counter is a reversible command over a shared integer.
type counter struct {
	value      *int
	delta      int
	reversible bool
	failExec   bool
	failUndo   bool
	execs      int
}

func newCounter(value *int, delta int) *counter {
	return &counter{value: value, delta: delta, reversible: true}
}

func (c *counter) Execute() error {
	if c.failExec {
		return errBoom
	}
	c.execs++
	*c.value += c.delta
	return nil
}

func (c *counter) Unexecute() error {
	if c.failUndo {
		return errBoom
	}
	*c.value -= c.delta
	return nil
}

func (c *counter) IsReversible() bool  { return c.reversible }
func (c *counter) Description() string { return fmt.Sprintf("add %d", c.delta) }

type memClip struct {
	text string
	err  error
}

func (m *memClip) ReadText() (string, error) { return m.text, m.err }
func (m *memClip) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func pos(row, col int) document.Position {
	return document.Position{Row: row, Col: col}
}

// Manager Tests

func TestManager_Empty(t *testing.T) {
	m := NewManager()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, DefaultMaxDepth, m.MaxDepth())

	_, ok := m.PeekUndo()
	assert.False(t, ok)
	_, ok = m.PeekRedo()
	assert.False(t, ok)
}

func TestManager_AppendAndUndoAll(t *testing.T) {
	value := 0
	m := NewManager()

	const n = 5
	for i := 1; i <= n; i++ {
		require.NoError(t, m.Execute(newCounter(&value, i)))
		assert.True(t, m.CanUndo())
	}
	assert.Equal(t, 15, value)

	undone := 0
	for m.CanUndo() {
		require.NoError(t, m.Undo())
		undone++
	}
	assert.Equal(t, n, undone)
	assert.Equal(t, 0, value)
	assert.Equal(t, n, m.RedoCount())
}

func TestManager_IrreversibleNotRecorded(t *testing.T) {
	value := 0
	m := NewManager()

	irr := newCounter(&value, 100)
	irr.reversible = false
	require.NoError(t, m.Execute(irr))
	assert.Equal(t, 100, value, "irreversible command still runs")
	assert.False(t, m.CanUndo())
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Execute(newCounter(&value, 1)))
	require.NoError(t, m.Execute(irr))
	assert.True(t, m.CanUndo())
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Undo())
	assert.Equal(t, 200, value, "only the reversible command is undone")
	assert.False(t, m.CanUndo())

	require.NoError(t, m.Redo())
	assert.Equal(t, 201, value)
	assert.Equal(t, 2, irr.execs, "irreversible command is never replayed")
}

func TestManager_UndoRedoRoundTrip(t *testing.T) {
	doc := document.FromString("hello")
	m := NewManager()

	require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, 5), " world")))
	afterExec := doc.Text()
	cursorAfterExec := m.UndoCount()

	require.NoError(t, m.Undo())
	assert.Equal(t, "hello", doc.Text())

	require.NoError(t, m.Redo())
	assert.Equal(t, afterExec, doc.Text())
	assert.Equal(t, cursorAfterExec, m.UndoCount())
}

func TestManager_RedoInvalidatedByNewEdit(t *testing.T) {
	value := 0
	m := NewManager()
	a, b, c := newCounter(&value, 1), newCounter(&value, 10), newCounter(&value, 100)

	require.NoError(t, m.Execute(a))
	require.NoError(t, m.Execute(b))
	require.NoError(t, m.Undo())
	assert.True(t, m.CanRedo())

	require.NoError(t, m.Execute(c))
	assert.False(t, m.CanRedo())
	assert.Equal(t, 2, m.Len())

	info := m.UndoInfo()
	require.Len(t, info, 2)
	assert.Equal(t, "add 1", info[0].Description)
	assert.Equal(t, "add 100", info[1].Description)

	require.NoError(t, m.Undo())
	require.NoError(t, m.Undo())
	assert.False(t, m.CanUndo())
	assert.Equal(t, 0, value)
}

func TestManager_RedoInvalidatedByIrreversibleIsNot(t *testing.T) {
	value := 0
	m := NewManager()
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	require.NoError(t, m.Undo())

	irr := newCounter(&value, 5)
	irr.reversible = false
	require.NoError(t, m.Execute(irr))
	assert.True(t, m.CanRedo(), "irreversible commands leave the history alone")
}

func TestManager_Clear(t *testing.T) {
	value := 0
	m := NewManager()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Execute(newCounter(&value, 1)))
	}
	require.NoError(t, m.Undo())
	require.True(t, m.CanUndo())
	require.True(t, m.CanRedo())

	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, 0, m.Len())
}

func TestManager_NoOpBoundaries(t *testing.T) {
	value := 0
	m := NewManager()

	assert.NoError(t, m.Undo())
	assert.NoError(t, m.Redo())
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Execute(newCounter(&value, 1)))
	assert.NoError(t, m.Redo(), "no forward entries")
	assert.Equal(t, 1, value)
	assert.Equal(t, 1, m.UndoCount())

	require.NoError(t, m.Undo())
	assert.NoError(t, m.Undo(), "fully undone")
	assert.Equal(t, 0, value)
	assert.Equal(t, 1, m.RedoCount())
}

func TestManager_ExecuteFailure(t *testing.T) {
	value := 0
	m := NewManager()
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	require.NoError(t, m.Undo())

	bad := newCounter(&value, 7)
	bad.failExec = true
	err := m.Execute(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), "add 7")

	assert.True(t, m.CanRedo(), "failed execute keeps redo entries")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 0, value)
}

func TestManager_UndoFailure(t *testing.T) {
	value := 0
	m := NewManager()
	c := newCounter(&value, 3)
	require.NoError(t, m.Execute(c))

	c.failUndo = true
	err := m.Undo()
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 1, m.UndoCount(), "cursor unchanged")
	assert.Equal(t, 3, value)

	c.failUndo = false
	require.NoError(t, m.Undo())
	c.failExec = true
	err = m.Redo()
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 0, m.UndoCount())
	assert.True(t, m.CanRedo())
}

func TestManager_IrreversibleInHistory(t *testing.T) {
	value := 0
	m := NewManager()
	c := newCounter(&value, 1)
	require.NoError(t, m.Execute(c))

	c.reversible = false
	assert.False(t, m.CanUndo())
	err := m.Undo()
	assert.True(t, errors.Is(err, ErrIrreversibleInHistory))
	assert.Equal(t, 1, value)
	assert.Equal(t, 1, m.UndoCount())
}

func TestManager_MaxDepth(t *testing.T) {
	value := 0
	m := NewManager(WithMaxDepth(3))

	for i := 1; i <= 5; i++ {
		require.NoError(t, m.Execute(newCounter(&value, i)))
	}
	assert.Equal(t, 3, m.Len())

	info := m.UndoInfo()
	require.Len(t, info, 3)
	assert.Equal(t, "add 3", info[0].Description)
	assert.Equal(t, "add 5", info[2].Description)

	for m.CanUndo() {
		require.NoError(t, m.Undo())
	}
	assert.Equal(t, 3, value, "evicted entries stay applied")

	m.SetMaxDepth(0)
	assert.Equal(t, DefaultMaxDepth, m.MaxDepth())
}

func TestManager_SetMaxDepthShrinks(t *testing.T) {
	value := 0
	m := NewManager()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Execute(newCounter(&value, 1)))
	}

	m.SetMaxDepth(4)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 4, m.UndoCount())
}

func TestManager_SetMaxDepthAfterUndo(t *testing.T) {
	t.Run("all undone keeps nearest redo entries", func(t *testing.T) {
		doc := document.New()
		m := NewManager()
		for i, text := range []string{"a", "b", "c"} {
			require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, i), text)))
		}
		for m.CanUndo() {
			require.NoError(t, m.Undo())
		}
		require.Equal(t, "", doc.Text())

		m.SetMaxDepth(2)
		assert.Equal(t, 2, m.Len())
		assert.Equal(t, 0, m.UndoCount())
		assert.Equal(t, 2, m.RedoCount())

		require.NoError(t, m.Redo())
		require.NoError(t, m.Redo())
		assert.Equal(t, "ab", doc.Text())
		assert.False(t, m.CanRedo())
	})

	t.Run("undo side evicted first", func(t *testing.T) {
		doc := document.New()
		m := NewManager()
		for i, text := range []string{"a", "b", "c"} {
			require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, i), text)))
		}
		require.NoError(t, m.Undo())
		require.Equal(t, "ab", doc.Text())

		m.SetMaxDepth(2)
		assert.Equal(t, 1, m.UndoCount())
		assert.Equal(t, 1, m.RedoCount())

		require.NoError(t, m.Redo())
		assert.Equal(t, "abc", doc.Text())
		require.NoError(t, m.Undo())
		require.NoError(t, m.Undo())
		assert.Equal(t, "a", doc.Text())
		assert.False(t, m.CanUndo())
	})

	t.Run("mixed trims both ends", func(t *testing.T) {
		value := 0
		m := NewManager()
		for i := 0; i < 6; i++ {
			require.NoError(t, m.Execute(newCounter(&value, 1)))
		}
		require.NoError(t, m.Undo())
		require.NoError(t, m.Undo())
		require.NoError(t, m.Undo())
		require.NoError(t, m.Undo())
		require.NoError(t, m.Undo())
		// one undoable entry, five redoable

		m.SetMaxDepth(3)
		assert.Equal(t, 3, m.Len())
		assert.Equal(t, 0, m.UndoCount())
		assert.Equal(t, 3, m.RedoCount())
	})
}

func TestManager_UndoWhileGrouping(t *testing.T) {
	doc := document.FromString("xy")
	m := NewManager()

	require.NoError(t, m.Execute(NewDeleteCommand(doc, pos(0, 0), 1)))
	require.Equal(t, "y", doc.Text())

	m.BeginGroup("typing")
	require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, 0), "AB")))
	require.Equal(t, "ABy", doc.Text())

	err := m.Undo()
	assert.True(t, errors.Is(err, ErrGroupOpen))
	assert.Equal(t, "ABy", doc.Text(), "document untouched")

	m.EndGroup()
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Undo())
	assert.Equal(t, "y", doc.Text())
	require.NoError(t, m.Undo())
	assert.Equal(t, "xy", doc.Text())
}

func TestManager_RedoWhileGrouping(t *testing.T) {
	value := 0
	m := NewManager()
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	require.NoError(t, m.Undo())

	m.BeginGroup("empty")
	err := m.Redo()
	assert.True(t, errors.Is(err, ErrGroupOpen))
	assert.Equal(t, 0, value)

	m.CancelGroup()
	require.NoError(t, m.Redo())
	assert.Equal(t, 1, value)
}

func TestManager_EntryInfo(t *testing.T) {
	value := 0
	m := NewManager()
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	require.NoError(t, m.Execute(newCounter(&value, 2)))

	top, ok := m.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "add 2", top.Description)
	assert.NotEmpty(t, top.ID)
	assert.False(t, top.Timestamp.IsZero())

	require.NoError(t, m.Undo())
	next, ok := m.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, top.ID, next.ID)

	redo := m.RedoInfo()
	require.Len(t, redo, 1)
	assert.Equal(t, "add 2", redo[0].Description)
	assert.NotEqual(t, m.UndoInfo()[0].ID, redo[0].ID)
}

func TestManager_NestedExecuteNotRecorded(t *testing.T) {
	doc := document.FromString("x")
	m := NewManager()

	outer := &FuncCommand{
		Name: "outer",
		ExecuteFunc: func() error {
			return m.Execute(NewInsertCommand(doc, pos(0, 0), "!"))
		},
		UnexecuteFunc: func() error {
			return m.Execute(NewDeleteCommand(doc, pos(0, 0), 1))
		},
		Reversible: true,
	}

	require.NoError(t, m.Execute(outer))
	assert.Equal(t, "!x", doc.Text())
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Undo())
	assert.Equal(t, "x", doc.Text())
	assert.Equal(t, 1, m.RedoCount())

	require.NoError(t, m.Redo())
	assert.Equal(t, "!x", doc.Text())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.UndoCount())
}

// Grouping Tests

func TestManager_Group(t *testing.T) {
	doc := document.New()
	m := NewManager()

	m.BeginGroup("Type word")
	assert.True(t, m.IsGrouping())
	require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, 0), "a")))
	require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, 1), "b")))
	require.NoError(t, m.Execute(NewInsertCommand(doc, pos(0, 2), "c")))
	m.EndGroup()

	assert.False(t, m.IsGrouping())
	assert.Equal(t, 1, m.Len())
	info, _ := m.PeekUndo()
	assert.Equal(t, "Type word", info.Description)

	require.NoError(t, m.Undo())
	assert.Equal(t, "", doc.Text())
	require.NoError(t, m.Redo())
	assert.Equal(t, "abc", doc.Text())
}

func TestManager_EmptyGroup(t *testing.T) {
	m := NewManager()
	m.BeginGroup("nothing")
	m.EndGroup()
	assert.Equal(t, 0, m.Len())
	m.EndGroup()
}

func TestManager_NestedGroupIgnored(t *testing.T) {
	value := 0
	m := NewManager()
	m.BeginGroup("outer")
	m.BeginGroup("inner")
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	m.EndGroup()
	assert.Equal(t, 1, m.Len())
	info, _ := m.PeekUndo()
	assert.Equal(t, "outer", info.Description)
}

func TestManager_CancelGroup(t *testing.T) {
	value := 0
	m := NewManager()
	m.BeginGroup("g")
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	m.CancelGroup()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, value)
}

func TestGroupScope(t *testing.T) {
	value := 0
	m := NewManager()
	func() {
		defer m.GroupScope("scoped").End()
		require.NoError(t, m.Execute(newCounter(&value, 1)))
		require.NoError(t, m.Execute(newCounter(&value, 2)))
	}()
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.IsGrouping())

	scope := m.GroupScope("cancelled")
	require.NoError(t, m.Execute(newCounter(&value, 4)))
	scope.Cancel()
	scope.End()
	assert.Equal(t, 1, m.Len())
}

func TestTransaction(t *testing.T) {
	doc := document.FromString("abc")
	m := NewManager()

	err := m.Transaction("ok", func() error {
		if err := m.Execute(NewInsertCommand(doc, pos(0, 3), "d")); err != nil {
			return err
		}
		return m.Execute(NewDeleteCommand(doc, pos(0, 0), 1))
	})
	require.NoError(t, err)
	assert.Equal(t, "bcd", doc.Text())
	assert.Equal(t, 1, m.Len())

	err = m.Transaction("fails", func() error {
		if err := m.Execute(NewInsertCommand(doc, pos(0, 0), "X")); err != nil {
			return err
		}
		return errBoom
	})
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, "bcd", doc.Text(), "failed transaction is rolled back")
	assert.Equal(t, 1, m.Len())
}

func TestTransaction_RollbackFailure(t *testing.T) {
	errStuck := errors.New("stuck")
	value := 0
	m := NewManager()

	stuck := &FuncCommand{
		Name:          "stuck",
		ExecuteFunc:   func() error { value += 10; return nil },
		UnexecuteFunc: func() error { return errStuck },
		Reversible:    true,
	}
	err := m.Transaction("fails", func() error {
		if err := m.Execute(newCounter(&value, 1)); err != nil {
			return err
		}
		if err := m.Execute(stuck); err != nil {
			return err
		}
		return errBoom
	})

	assert.True(t, errors.Is(err, errBoom))
	assert.True(t, errors.Is(err, errStuck), "rollback failure is reported")
	assert.Contains(t, err.Error(), "rollback fails")
	assert.Equal(t, 10, value, "other commands still rolled back")
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.IsGrouping())
}

func TestExecuteGrouped(t *testing.T) {
	doc := document.FromString("12345")
	m := NewManager()

	require.NoError(t, m.ExecuteGrouped("none"))
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.ExecuteGrouped("trim",
		NewDeleteCommand(doc, pos(0, 4), 1),
		NewDeleteCommand(doc, pos(0, 0), 1),
	))
	assert.Equal(t, "234", doc.Text())
	assert.Equal(t, 1, m.Len())

	err := m.ExecuteGrouped("bad",
		NewInsertCommand(doc, pos(0, 0), "x"),
		NewDeleteCommand(doc, pos(0, 0), 99),
	)
	assert.True(t, errors.Is(err, document.ErrOutOfRange))
	assert.Equal(t, "234", doc.Text())
	assert.Equal(t, 1, m.Len())
}

func TestCheckpoint(t *testing.T) {
	value := 0
	m := NewManager()

	start := m.Checkpoint()
	require.NoError(t, m.Execute(newCounter(&value, 1)))
	mid := m.Checkpoint()
	require.NoError(t, m.Execute(newCounter(&value, 10)))
	require.NoError(t, m.Execute(newCounter(&value, 100)))

	require.NoError(t, m.UndoTo(mid))
	assert.Equal(t, 1, value)

	require.NoError(t, m.UndoTo(start))
	assert.Equal(t, 0, value)

	require.NoError(t, m.RedoTo(mid))
	assert.Equal(t, 1, value)

	require.NoError(t, m.Execute(newCounter(&value, 5)))
	lost := m.Checkpoint()
	require.NoError(t, m.Undo())
	require.NoError(t, m.Execute(newCounter(&value, 7)))
	assert.True(t, errors.Is(m.UndoTo(lost), ErrUnknownCheckpoint))
}

// Command Tests

func TestInsertCommand(t *testing.T) {
	doc := document.FromString("ac")
	cmd := NewInsertCommand(doc, pos(0, 1), "b")

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "abc", doc.Text())
	require.NoError(t, cmd.Unexecute())
	assert.Equal(t, "ac", doc.Text())
	assert.True(t, cmd.IsReversible())

	bad := NewInsertCommand(doc, pos(5, 0), "x")
	assert.True(t, errors.Is(bad.Execute(), document.ErrOutOfRange))
}

func TestInsertCommand_Description(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a", "Type 'a'"},
		{"\n", "Insert newline"},
		{"\t", "Insert tab"},
		{"hello", `Insert "hello"`},
		{"this text is longer than twenty", "Insert 31 characters"},
	}
	for _, tt := range tests {
		cmd := NewInsertCommand(document.New(), pos(0, 0), tt.text)
		assert.Equal(t, tt.want, cmd.Description())
	}
}

func TestDeleteCommand(t *testing.T) {
	doc := document.FromString("ab\ncd")
	cmd := NewDeleteCommand(doc, pos(0, 1), 3)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ad", doc.Text())
	require.NoError(t, cmd.Unexecute())
	assert.Equal(t, "ab\ncd", doc.Text())

	assert.Equal(t, "Delete 3 characters", cmd.Description())
	assert.Equal(t, "Delete", NewDeleteCommand(doc, pos(0, 0), 1).Description())
}

func TestDeleteCommand_KeepsImages(t *testing.T) {
	doc := document.FromString("ab")
	_, err := doc.InsertImage(pos(0, 1), document.NewImage("pic.png", 2, 2))
	require.NoError(t, err)
	before, err := doc.Fingerprint()
	require.NoError(t, err)

	m := NewManager()
	require.NoError(t, m.Execute(NewDeleteCommand(doc, pos(0, 0), 3)))
	require.NoError(t, m.Undo())

	after, err := doc.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReplaceCommand(t *testing.T) {
	doc := document.FromString("hello world")
	cmd := NewReplaceCommand(doc, pos(0, 6), 5, "there")

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "hello there", doc.Text())
	require.NoError(t, cmd.Unexecute())
	assert.Equal(t, "hello world", doc.Text())
	assert.Equal(t, "Replace 5 with 5 characters", cmd.Description())
}

func TestPasteCommand(t *testing.T) {
	doc := document.FromString("ab")
	clip := &memClip{text: "XY"}
	m := NewManager()

	paste := NewPasteCommand(doc, clip, pos(0, 1))
	require.NoError(t, m.Execute(paste))
	assert.Equal(t, "aXYb", doc.Text())
	assert.Equal(t, "Paste 2 characters", paste.Description())

	clip.text = "changed"
	require.NoError(t, m.Undo())
	require.NoError(t, m.Redo())
	assert.Equal(t, "aXYb", doc.Text(), "redo pastes the original text")
}

func TestPasteCommand_Failures(t *testing.T) {
	doc := document.FromString("ab")
	m := NewManager()

	err := m.Execute(NewPasteCommand(doc, &memClip{}, pos(0, 0)))
	assert.True(t, errors.Is(err, ErrClipboardEmpty))

	err = m.Execute(NewPasteCommand(doc, &memClip{err: errBoom}, pos(0, 0)))
	assert.True(t, errors.Is(err, errBoom))

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "ab", doc.Text())
}

func TestCopyCommand(t *testing.T) {
	doc := document.FromString("ab\ncd")
	clip := &memClip{}
	m := NewManager()

	require.NoError(t, m.Execute(NewCopyCommand(doc, clip, pos(0, 1), 3)))
	assert.Equal(t, "b\nc", clip.text)
	assert.False(t, m.CanUndo())

	cmd := NewCopyCommand(doc, clip, pos(0, 0), 1)
	assert.True(t, errors.Is(cmd.Unexecute(), ErrNotReversible))

	err := m.Execute(NewCopyCommand(doc, clip, pos(1, 0), 10))
	assert.True(t, errors.Is(err, document.ErrOutOfRange))
}

func TestQuitCommand(t *testing.T) {
	quit := false
	m := NewManager()
	require.NoError(t, m.Execute(NewQuitCommand(func() error {
		quit = true
		return nil
	})))
	assert.True(t, quit)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "Quit", NewQuitCommand(nil).Description())
	assert.NoError(t, NewQuitCommand(nil).Execute())
}

func TestFuncCommand(t *testing.T) {
	value := 0
	cmd := &FuncCommand{
		Name:          "double",
		ExecuteFunc:   func() error { value *= 2; return nil },
		UnexecuteFunc: func() error { value /= 2; return nil },
		Reversible:    true,
	}
	value = 3
	m := NewManager()
	require.NoError(t, m.Execute(cmd))
	assert.Equal(t, 6, value)
	require.NoError(t, m.Undo())
	assert.Equal(t, 3, value)

	oneWay := &FuncCommand{Name: "once"}
	assert.False(t, oneWay.IsReversible())
	assert.True(t, errors.Is(oneWay.Unexecute(), ErrNotReversible))
}

func TestCompoundCommand(t *testing.T) {
	value := 0
	c := NewCompoundCommand("batch", newCounter(&value, 1), newCounter(&value, 2))
	assert.True(t, c.IsReversible())
	assert.Equal(t, "batch", c.Description())

	require.NoError(t, c.Execute())
	assert.Equal(t, 3, value)
	require.NoError(t, c.Unexecute())
	assert.Equal(t, 0, value)

	bad := newCounter(&value, 4)
	bad.failExec = true
	c.Add(bad)
	err := c.Execute()
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 0, value, "executed children are rolled back")

	irr := newCounter(&value, 1)
	irr.reversible = false
	assert.False(t, NewCompoundCommand("", irr).IsReversible())
	assert.Equal(t, "add 1", NewCompoundCommand("", irr).Description())
	assert.Equal(t, "2 operations", NewCompoundCommand("", irr, irr).Description())
	assert.True(t, NewCompoundCommand("").IsEmpty())
}

func TestCompoundCommand_RollbackFailure(t *testing.T) {
	errStuck := errors.New("stuck")
	value := 0

	first := newCounter(&value, 1)
	first.failUndo = true
	second := newCounter(&value, 2)
	bad := newCounter(&value, 4)
	bad.failExec = true

	c := NewCompoundCommand("batch", first, second, bad)
	err := c.Execute()
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), "rollback")
	assert.Contains(t, err.Error(), "step 0 (add 1)")
	assert.Equal(t, 1, value, "second rolled back, first stuck")

	c = NewCompoundCommand("one-way", &FuncCommand{
		Name:          "x",
		ExecuteFunc:   func() error { return nil },
		UnexecuteFunc: func() error { return errStuck },
		Reversible:    true,
	}, bad)
	err = c.Execute()
	assert.True(t, errors.Is(err, errStuck))
	assert.True(t, errors.Is(err, errBoom))
}

// Operation Tests

func TestOperation(t *testing.T) {
	ins := NewInsertOperation(pos(0, 0), document.SpanFromString("hi"))
	assert.Empty(t, ins.Removed)
	assert.Equal(t, "hi", ins.Inserted.String())
	assert.False(t, ins.Timestamp.IsZero())

	del := ins.Invert()
	assert.Equal(t, "hi", del.Removed.String())
	assert.Empty(t, del.Inserted)
	assert.Equal(t, ins.Pos, del.Pos)

	rep := NewReplaceOperation(pos(0, 0), document.SpanFromString("a"), document.SpanFromString("bc"))
	inv := rep.Invert()
	assert.Equal(t, "bc", inv.Removed.String())
	assert.Equal(t, "a", inv.Inserted.String())

	doc := document.FromString("x")
	require.NoError(t, (&Operation{}).Apply(doc))
	assert.Equal(t, "x", doc.Text(), "empty operation changes nothing")
}

func TestOperation_Apply(t *testing.T) {
	doc := document.FromString("abc")
	op := NewReplaceOperation(pos(0, 1), document.SpanFromString("b"), document.SpanFromString("\nB"))
	require.NoError(t, op.Apply(doc))
	assert.Equal(t, "a\nBc", doc.Text())

	require.NoError(t, op.Invert().Apply(doc))
	assert.Equal(t, "abc", doc.Text())

	bad := NewDeleteOperation(pos(3, 0), document.SpanFromString("x"))
	assert.True(t, errors.Is(bad.Apply(doc), document.ErrOutOfRange))
}
