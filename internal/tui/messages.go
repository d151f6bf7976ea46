package tui

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// AsyncDoneMsg carries the completion of work queued by a click. Apply must
// run on the UI loop.
type AsyncDoneMsg struct {
	Apply func()
}

// PhotoOpenedMsg signals that the external viewer was launched
type PhotoOpenedMsg struct {
	URL string
}

// TickMsg is sent periodically for spinner animation
type TickMsg struct{}

// StatusMsg displays a transient message in the footer
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
