package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens photo URLs in an external image viewer
type Launcher struct {
	command  string   // configured viewer command, empty for auto-detection
	args     []string // additional arguments for the viewer
	goos     string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
	logger   *slog.Logger
}

// candidateViewers defines the preferred viewer order for each platform.
// Viewers must accept a URL as their last argument.
var candidateViewers = map[string][]string{
	"linux":   {"imv", "feh", "eog", "gwenview"},
	"freebsd": {"imv", "feh"},
}

// NewLauncher creates a Launcher for the configured viewer
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startCommand,
		logger:   logger,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open shows url in the configured viewer, a detected viewer, or the system
// default handler, in that order. It does not wait for the viewer to exit.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no url to open")
	}
	name, args := l.resolve(url)
	l.logger.Info("opening photo", "command", name, "args", args)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// resolve picks the command line used to open url
func (l *Launcher) resolve(url string) (string, []string) {
	// Tier 1: user configured a specific viewer
	if l.command != "" {
		return l.command, append(append([]string{}, l.args...), url)
	}

	// Tier 2: first installed candidate for this platform
	for _, viewer := range candidateViewers[l.goos] {
		if _, err := l.lookPath(viewer); err == nil {
			return viewer, []string{url}
		}
		l.logger.Debug("viewer not available", "viewer", viewer)
	}

	// Tier 3: system default (open/xdg-open/start)
	switch l.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		return "xdg-open", []string{url}
	}
}
