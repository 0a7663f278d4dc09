package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoUsers is reported when an edit or delete is requested on an empty
	// list.
	ErrNoUsers = errors.New("tui: no users to choose from")
)
