// Package session ties a document to its undo history, clipboard and
// logger for one editing session.
package session

import (
	"errors"
	"fmt"

	"github.com/dshills/lexi/internal/clipboard"
	"github.com/dshills/lexi/internal/engine/document"
	"github.com/dshills/lexi/internal/engine/history"
	"github.com/dshills/lexi/internal/logger"
	"github.com/dshills/lexi/internal/spell"
)

// ErrDone is returned by editing operations after Quit.
var ErrDone = errors.New("session has quit")

// ErrAutoSave wraps the failure reported by SaveErr.
var ErrAutoSave = errors.New("auto-save failed")

// Session is one editing session. It is not safe for concurrent use.
type Session struct {
	doc     *document.Document
	history *history.Manager
	clip    clipboard.Clipboard
	log     logger.Sink

	saved    uint64
	autoSave func(*document.Document) error
	saveErr  error
	done     bool
}

// Option configures a Session.
type Option func(*Session)

// WithDocument edits doc instead of an empty document.
func WithDocument(doc *document.Document) Option {
	return func(s *Session) {
		if doc != nil {
			s.doc = doc
		}
	}
}

// WithClipboard sets the clipboard used by Copy and Paste.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *Session) {
		if c != nil {
			s.clip = c
		}
	}
}

// WithLogger sets the sink for session diagnostics.
func WithLogger(sink logger.Sink) Option {
	return func(s *Session) {
		s.log = logger.OrNop(sink)
	}
}

// WithHistory sets the undo history.
func WithHistory(m *history.Manager) Option {
	return func(s *Session) {
		if m != nil {
			s.history = m
		}
	}
}

// WithAutoSave calls save after every successful edit, undo and redo that
// changes the document. A failing save does not fail the edit; see SaveErr.
func WithAutoSave(save func(*document.Document) error) Option {
	return func(s *Session) {
		s.autoSave = save
	}
}

// New creates a session.
func New(opts ...Option) *Session {
	s := &Session{
		doc:     document.New(),
		history: history.NewManager(),
		clip:    clipboard.NewMemory(""),
		log:     logger.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.MarkSaved()
	return s
}

// Document returns the edited document.
func (s *Session) Document() *document.Document { return s.doc }

// History returns the undo history.
func (s *Session) History() *history.Manager { return s.history }

// Clipboard returns the session's clipboard.
func (s *Session) Clipboard() clipboard.Clipboard { return s.clip }

// Logger returns the session's sink.
func (s *Session) Logger() logger.Sink { return s.log }

// Text returns the document's text.
func (s *Session) Text() string { return s.doc.Text() }

// Execute runs cmd through the history. Failures are logged and returned.
func (s *Session) Execute(cmd history.Command) error {
	if s.done {
		return ErrDone
	}
	if err := s.history.Execute(cmd); err != nil {
		s.log.Writeln(logger.LevelError, "%v", err)
		return err
	}
	s.log.Writeln(logger.LevelLog, "executed %s", cmd.Description())
	s.maybeSave()
	return nil
}

// Insert inserts text at pos.
func (s *Session) Insert(pos document.Position, text string) error {
	return s.Execute(history.NewInsertCommand(s.doc, pos, text))
}

// Delete deletes count glyphs at pos.
func (s *Session) Delete(pos document.Position, count int) error {
	return s.Execute(history.NewDeleteCommand(s.doc, pos, count))
}

// Replace replaces count glyphs at pos with text.
func (s *Session) Replace(pos document.Position, count int, text string) error {
	return s.Execute(history.NewReplaceCommand(s.doc, pos, count, text))
}

// Paste inserts the clipboard's text at pos.
func (s *Session) Paste(pos document.Position) error {
	return s.Execute(history.NewPasteCommand(s.doc, s.clip, pos))
}

// Copy copies count glyphs at pos to the clipboard.
func (s *Session) Copy(pos document.Position, count int) error {
	return s.Execute(history.NewCopyCommand(s.doc, s.clip, pos, count))
}

// Quit ends the session. Later edits fail with ErrDone.
func (s *Session) Quit() error {
	return s.Execute(history.NewQuitCommand(func() error {
		s.done = true
		return nil
	}))
}

// Done reports whether Quit was executed.
func (s *Session) Done() bool { return s.done }

// Undo undoes the last edit.
func (s *Session) Undo() error {
	if err := s.history.Undo(); err != nil {
		s.log.Writeln(logger.LevelError, "%v", err)
		return err
	}
	s.maybeSave()
	return nil
}

// Redo redoes the last undone edit.
func (s *Session) Redo() error {
	if err := s.history.Redo(); err != nil {
		s.log.Writeln(logger.LevelError, "%v", err)
		return err
	}
	s.maybeSave()
	return nil
}

// SpellCheck walks the document with c and returns the misspellings it
// found. The checker is reset first.
func (s *Session) SpellCheck(c *spell.Checker) []string {
	c.Reset()
	words := c.CheckDocument(s.doc)
	if len(words) > 0 {
		s.log.Writeln(logger.LevelMessage, "%d misspelled words", len(words))
	}
	return words
}

// Modified reports whether the document differs from the last MarkSaved.
func (s *Session) Modified() bool {
	fp, err := s.doc.Fingerprint()
	if err != nil {
		return true
	}
	return fp != s.saved
}

// MarkSaved records the current content as saved.
func (s *Session) MarkSaved() {
	fp, err := s.doc.Fingerprint()
	if err != nil {
		s.log.Writeln(logger.LevelError, "fingerprint: %v", err)
		return
	}
	s.saved = fp
}

// SaveErr returns the most recent auto-save failure, wrapped with
// ErrAutoSave, or nil if the last save succeeded. The document stays
// Modified until a save succeeds.
func (s *Session) SaveErr() error {
	return s.saveErr
}

// maybeSave runs the auto-save hook. The edit that triggered it has
// already been applied and recorded, so failures are logged and kept for
// SaveErr instead of being returned.
func (s *Session) maybeSave() {
	if s.autoSave == nil || !s.Modified() {
		return
	}
	if err := s.autoSave(s.doc); err != nil {
		s.saveErr = fmt.Errorf("%w: %w", ErrAutoSave, err)
		s.log.Writeln(logger.LevelError, "%v", s.saveErr)
		return
	}
	s.saveErr = nil
	s.MarkSaved()
}
