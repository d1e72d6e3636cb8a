package history

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/lexi/internal/engine/document"
)

// Command represents an edit action that can be executed and, when
// reversible, undone.
type Command interface {
	// Execute performs the command. It is called both for the first
	// execution and on redo.
	Execute() error

	// Unexecute reverses the most recent Execute. Only called when
	// IsReversible reports true.
	Unexecute() error

	// IsReversible reports whether the command can be undone.
	IsReversible() bool

	// Description returns a human-readable description of the command.
	Description() string
}

// Clipboard is the text clipboard used by paste and copy.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// InsertCommand inserts text at a position.
type InsertCommand struct {
	Pos  document.Position
	Text string

	doc *document.Document
	op  *Operation
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(doc *document.Document, pos document.Position, text string) *InsertCommand {
	return &InsertCommand{doc: doc, Pos: pos, Text: text}
}

// Execute inserts the text.
func (c *InsertCommand) Execute() error {
	span := document.SpanFromString(c.Text)
	if _, err := c.doc.InsertSpan(c.Pos, span); err != nil {
		return fmt.Errorf("insert at %s: %w", c.Pos, err)
	}
	c.op = NewInsertOperation(c.Pos, span)
	return nil
}

// Unexecute removes the inserted text.
func (c *InsertCommand) Unexecute() error {
	if c.op == nil {
		return nil
	}
	if err := c.op.Invert().Apply(c.doc); err != nil {
		return fmt.Errorf("undo insert: %w", err)
	}
	return nil
}

// IsReversible returns true.
func (c *InsertCommand) IsReversible() bool { return true }

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	return describeInsert(c.Text)
}

func describeInsert(text string) string {
	if utf8.RuneCountInString(text) == 1 {
		if text == "\n" {
			return "Insert newline"
		}
		if text == "\t" {
			return "Insert tab"
		}
		return fmt.Sprintf("Type '%s'", text)
	}
	if utf8.RuneCountInString(text) <= 20 {
		return fmt.Sprintf("Insert %q", text)
	}
	return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(text))
}

// DeleteCommand deletes Count glyphs starting at Pos. A row break counts
// as one glyph.
type DeleteCommand struct {
	Pos   document.Position
	Count int

	doc *document.Document
	op  *Operation
}

// NewDeleteCommand creates a new delete command.
func NewDeleteCommand(doc *document.Document, pos document.Position, count int) *DeleteCommand {
	return &DeleteCommand{doc: doc, Pos: pos, Count: count}
}

// Execute deletes the glyphs, remembering them for undo.
func (c *DeleteCommand) Execute() error {
	removed, err := c.doc.Delete(c.Pos, c.Count)
	if err != nil {
		return fmt.Errorf("delete %d at %s: %w", c.Count, c.Pos, err)
	}
	c.op = NewDeleteOperation(c.Pos, removed)
	return nil
}

// Unexecute restores the deleted glyphs.
func (c *DeleteCommand) Unexecute() error {
	if c.op == nil {
		return nil
	}
	if err := c.op.Invert().Apply(c.doc); err != nil {
		return fmt.Errorf("undo delete: %w", err)
	}
	return nil
}

// IsReversible returns true.
func (c *DeleteCommand) IsReversible() bool { return true }

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	if c.Count == 1 {
		return "Delete"
	}
	return fmt.Sprintf("Delete %d characters", c.Count)
}

// ReplaceCommand replaces Count glyphs at Pos with Text.
type ReplaceCommand struct {
	Pos   document.Position
	Count int
	Text  string

	doc *document.Document
	op  *Operation
}

// NewReplaceCommand creates a new replace command.
func NewReplaceCommand(doc *document.Document, pos document.Position, count int, text string) *ReplaceCommand {
	return &ReplaceCommand{doc: doc, Pos: pos, Count: count, Text: text}
}

// Execute replaces the glyphs.
func (c *ReplaceCommand) Execute() error {
	removed, err := c.doc.TextRange(c.Pos, c.Count)
	if err != nil {
		return fmt.Errorf("replace %d at %s: %w", c.Count, c.Pos, err)
	}
	op := NewReplaceOperation(c.Pos, removed, document.SpanFromString(c.Text))
	if err := op.Apply(c.doc); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	c.op = op
	return nil
}

// Unexecute restores the original glyphs.
func (c *ReplaceCommand) Unexecute() error {
	if c.op == nil {
		return nil
	}
	if err := c.op.Invert().Apply(c.doc); err != nil {
		return fmt.Errorf("undo replace: %w", err)
	}
	return nil
}

// IsReversible returns true.
func (c *ReplaceCommand) IsReversible() bool { return true }

// Description returns a human-readable description.
func (c *ReplaceCommand) Description() string {
	newLen := utf8.RuneCountInString(c.Text)
	if c.Count == 0 {
		return fmt.Sprintf("Insert %d characters", newLen)
	}
	if newLen == 0 {
		return fmt.Sprintf("Delete %d characters", c.Count)
	}
	return fmt.Sprintf("Replace %d with %d characters", c.Count, newLen)
}

// PasteCommand inserts the clipboard's text at Pos. The clipboard is read
// on the first execution only; redo inserts the same text again.
type PasteCommand struct {
	Pos document.Position

	doc   *document.Document
	clip  Clipboard
	text  string
	taken bool
	op    *Operation
}

// NewPasteCommand creates a new paste command.
func NewPasteCommand(doc *document.Document, clip Clipboard, pos document.Position) *PasteCommand {
	return &PasteCommand{doc: doc, clip: clip, Pos: pos}
}

// Execute inserts the clipboard text.
func (c *PasteCommand) Execute() error {
	if !c.taken {
		text, err := c.clip.ReadText()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		if text == "" {
			return ErrClipboardEmpty
		}
		c.text = text
		c.taken = true
	}

	span := document.SpanFromString(c.text)
	if _, err := c.doc.InsertSpan(c.Pos, span); err != nil {
		return fmt.Errorf("paste at %s: %w", c.Pos, err)
	}
	c.op = NewInsertOperation(c.Pos, span)
	return nil
}

// Unexecute removes the pasted text.
func (c *PasteCommand) Unexecute() error {
	if c.op == nil {
		return nil
	}
	if err := c.op.Invert().Apply(c.doc); err != nil {
		return fmt.Errorf("undo paste: %w", err)
	}
	return nil
}

// IsReversible returns true.
func (c *PasteCommand) IsReversible() bool { return true }

// Text returns the pasted text, or "" before the first execution.
func (c *PasteCommand) Text() string { return c.text }

// Description returns a human-readable description.
func (c *PasteCommand) Description() string {
	if c.taken {
		return fmt.Sprintf("Paste %d characters", utf8.RuneCountInString(c.text))
	}
	return "Paste"
}

// CopyCommand copies Count glyphs at Pos to the clipboard. It does not
// change the document and cannot be undone.
type CopyCommand struct {
	Pos   document.Position
	Count int

	doc  *document.Document
	clip Clipboard
}

// NewCopyCommand creates a new copy command.
func NewCopyCommand(doc *document.Document, clip Clipboard, pos document.Position, count int) *CopyCommand {
	return &CopyCommand{doc: doc, clip: clip, Pos: pos, Count: count}
}

// Execute writes the glyphs' text to the clipboard.
func (c *CopyCommand) Execute() error {
	span, err := c.doc.TextRange(c.Pos, c.Count)
	if err != nil {
		return fmt.Errorf("copy %d at %s: %w", c.Count, c.Pos, err)
	}
	if err := c.clip.WriteText(span.String()); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Unexecute always fails.
func (c *CopyCommand) Unexecute() error { return ErrNotReversible }

// IsReversible returns false.
func (c *CopyCommand) IsReversible() bool { return false }

// Description returns a human-readable description.
func (c *CopyCommand) Description() string {
	return fmt.Sprintf("Copy %d characters", c.Count)
}

// QuitCommand ends the editing session by calling its hook.
type QuitCommand struct {
	quit func() error
}

// NewQuitCommand creates a quit command that calls quit.
func NewQuitCommand(quit func() error) *QuitCommand {
	return &QuitCommand{quit: quit}
}

// Execute calls the quit hook.
func (c *QuitCommand) Execute() error {
	if c.quit == nil {
		return nil
	}
	return c.quit()
}

// Unexecute always fails.
func (c *QuitCommand) Unexecute() error { return ErrNotReversible }

// IsReversible returns false.
func (c *QuitCommand) IsReversible() bool { return false }

// Description returns "Quit".
func (c *QuitCommand) Description() string { return "Quit" }

// FuncCommand adapts a pair of functions to the Command interface.
type FuncCommand struct {
	Name          string
	ExecuteFunc   func() error
	UnexecuteFunc func() error
	Reversible    bool
}

// Execute calls ExecuteFunc.
func (c *FuncCommand) Execute() error {
	if c.ExecuteFunc == nil {
		return nil
	}
	return c.ExecuteFunc()
}

// Unexecute calls UnexecuteFunc.
func (c *FuncCommand) Unexecute() error {
	if !c.Reversible {
		return ErrNotReversible
	}
	if c.UnexecuteFunc == nil {
		return nil
	}
	return c.UnexecuteFunc()
}

// IsReversible reports the Reversible field.
func (c *FuncCommand) IsReversible() bool { return c.Reversible }

// Description returns Name.
func (c *FuncCommand) Description() string { return c.Name }

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order. If one fails, the commands already
// run are undone in reverse order. Rollback failures are joined to the
// returned error.
func (c *CompoundCommand) Execute() error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(); err != nil {
			err = fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
			if rerr := c.rollback(i)(); rerr != nil {
				return errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
			return err
		}
	}
	return nil
}

// rollback returns a function that unexecutes the first n reversible
// commands in reverse order, continuing past failures.
func (c *CompoundCommand) rollback(n int) func() error {
	return func() error {
		var errs []error
		for i := n - 1; i >= 0; i-- {
			cmd := c.Commands[i]
			if !cmd.IsReversible() {
				continue
			}
			if err := cmd.Unexecute(); err != nil {
				errs = append(errs, fmt.Errorf("step %d (%s): %w", i, cmd.Description(), err))
			}
		}
		return errors.Join(errs...)
	}
}

// Unexecute reverses all commands in reverse order.
func (c *CompoundCommand) Unexecute() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Unexecute(); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// IsReversible reports whether every child is reversible.
func (c *CompoundCommand) IsReversible() bool {
	for _, cmd := range c.Commands {
		if !cmd.IsReversible() {
			return false
		}
	}
	return true
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
