package history

import "errors"

// Errors returned by the history package.
var (
	// ErrIrreversibleInHistory is returned by Undo when the entry under the
	// cursor reports itself irreversible. Execute never records such a
	// command, so this signals a command whose reversibility changed after
	// it was recorded.
	ErrIrreversibleInHistory = errors.New("irreversible command in history")

	// ErrNotReversible is returned by Unexecute on irreversible commands.
	ErrNotReversible = errors.New("command is not reversible")

	// ErrClipboardEmpty is returned when pasting from an empty clipboard.
	ErrClipboardEmpty = errors.New("clipboard is empty")

	// ErrUnknownCheckpoint is returned when a checkpoint's entry is no
	// longer part of the history.
	ErrUnknownCheckpoint = errors.New("checkpoint not in history")

	// ErrGroupOpen is returned by Undo and Redo while a command group is
	// being recorded. End or cancel the group first.
	ErrGroupOpen = errors.New("command group is open")
)
