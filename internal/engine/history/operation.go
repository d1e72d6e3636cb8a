package history

import (
	"fmt"
	"time"

	"github.com/dshills/lexi/internal/engine/document"
)

// Operation represents a single undoable edit.
// It captures all information needed to undo or redo the edit.
type Operation struct {
	// Edit data
	Pos      document.Position // Where the edit starts
	Removed  document.Span     // Glyphs that were removed (for undo)
	Inserted document.Span     // Glyphs that were inserted (for redo)

	// Metadata
	Timestamp time.Time // When the operation occurred
}

// NewInsertOperation creates an operation for an insertion.
func NewInsertOperation(pos document.Position, inserted document.Span) *Operation {
	return &Operation{
		Pos:       pos,
		Inserted:  inserted,
		Timestamp: time.Now(),
	}
}

// NewDeleteOperation creates an operation for a deletion.
func NewDeleteOperation(pos document.Position, removed document.Span) *Operation {
	return &Operation{
		Pos:       pos,
		Removed:   removed,
		Timestamp: time.Now(),
	}
}

// NewReplaceOperation creates an operation for a replacement.
func NewReplaceOperation(pos document.Position, removed, inserted document.Span) *Operation {
	return &Operation{
		Pos:       pos,
		Removed:   removed,
		Inserted:  inserted,
		Timestamp: time.Now(),
	}
}

// Apply removes len(Removed) glyphs at Pos and inserts Inserted in their place.
func (op *Operation) Apply(doc *document.Document) error {
	if len(op.Removed) > 0 {
		if _, err := doc.Delete(op.Pos, len(op.Removed)); err != nil {
			return fmt.Errorf("delete %d at %s: %w", len(op.Removed), op.Pos, err)
		}
	}
	if len(op.Inserted) > 0 {
		if _, err := doc.InsertSpan(op.Pos, op.Inserted); err != nil {
			return fmt.Errorf("insert %d at %s: %w", len(op.Inserted), op.Pos, err)
		}
	}
	return nil
}

// Invert returns an operation that undoes this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Pos:       op.Pos,
		Removed:   op.Inserted,
		Inserted:  op.Removed,
		Timestamp: time.Now(),
	}
}

// EntryInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type EntryInfo struct {
	ID          string    // Stable identifier of the entry
	Description string    // Human-readable description
	Timestamp   time.Time // When the command was recorded
}
