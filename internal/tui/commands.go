package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/photodeck/internal/view"
)

// Opener launches a photo in an external viewer
type Opener interface {
	Open(url string) error
}

// Command factories for async operations

// RunAsyncCmd runs work queued by a click off the UI loop
func RunAsyncCmd(ctx context.Context, work view.Async) tea.Cmd {
	return func() tea.Msg {
		return AsyncDoneMsg{Apply: work(ctx)}
	}
}

// asyncCmds wraps every queued job in its own command
func asyncCmds(ctx context.Context, jobs []view.Async) tea.Cmd {
	if len(jobs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, work := range jobs {
		cmds = append(cmds, RunAsyncCmd(ctx, work))
	}
	return tea.Batch(cmds...)
}

// OpenPhotoCmd launches the external viewer for url
func OpenPhotoCmd(opener Opener, url string) tea.Cmd {
	return func() tea.Msg {
		if opener == nil {
			return StatusMsg{Message: "No image viewer configured", IsError: true}
		}
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening photo"}
		}
		return PhotoOpenedMsg{URL: url}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
