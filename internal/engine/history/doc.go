// Package history provides undo/redo for document editing.
//
// The history system uses the Command pattern to encapsulate edits so they
// can be executed, undone and redone. Key concepts:
//
// # Commands
//
// Commands implement the Command interface. Built-in commands include:
//   - InsertCommand: insert text at a position
//   - DeleteCommand: delete a run of glyphs
//   - ReplaceCommand: replace a run of glyphs with text
//   - PasteCommand: insert the clipboard's text
//   - CopyCommand: copy a run of glyphs to the clipboard (irreversible)
//   - QuitCommand: end the session (irreversible)
//   - CompoundCommand: several commands as one undo unit
//   - FuncCommand: a command built from closures
//
// # Manager
//
// The Manager owns the executed commands and a cursor into them:
//
//	m := history.NewManager(history.WithMaxDepth(1000))
//
//	m.Execute(history.NewInsertCommand(doc, pos, "hello"))
//	m.Undo()
//	m.Redo()
//
// Irreversible commands are executed but never recorded. Executing a
// command after an undo discards everything that could have been redone.
//
// # Command Grouping
//
// Multiple commands can be grouped as a single undo unit:
//
//	m.BeginGroup("Find and Replace")
//	// ... multiple edits ...
//	m.EndGroup()
//
// A Manager is not safe for concurrent use.
package history
