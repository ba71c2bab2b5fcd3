package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Launcher opens product links in a web browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	start   func(cmd *exec.Cmd) error
	logger  *slog.Logger
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		start:   func(cmd *exec.Cmd) error { return cmd.Start() },
		logger:  logger,
	}
}

// Open opens rawURL in the configured browser or the system default.
// Only http and https links are opened.
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) link", rawURL)
	}

	cmd := l.buildCommand(u.String())
	l.logger.Info("opening link", "command", cmd.Path, "args", cmd.Args[1:])
	if err := l.start(cmd); err != nil {
		l.logger.Error("failed to open link", "error", err)
		return fmt.Errorf("failed to open link: %w", err)
	}
	return nil
}

// buildCommand builds the command that opens link
func (l *Launcher) buildCommand(link string) *exec.Cmd {
	// Tier 1: User configured a specific browser
	if l.command != "" {
		if l.goos == "darwin" {
			if _, err := exec.LookPath(l.command); err != nil {
				// GUI app not in PATH, e.g. "Firefox"
				args := []string{"-a", l.command, link}
				return exec.Command("open", args...)
			}
		}
		args := append(append([]string{}, l.args...), link)
		return exec.Command(l.command, args...)
	}

	// Tier 2: System default handler
	switch l.goos {
	case "darwin":
		return exec.Command("open", link)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", link)
	default:
		return exec.Command("xdg-open", link)
	}
}
