package clip

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const keystrokeTimeout = 3 * time.Second

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

type Keystroker interface {
	Paste(ctx context.Context) error
}

// CommandKeystroker sends the platform paste chord to the focused window
// using OS tools (xdotool, osascript, powershell).
type CommandKeystroker struct {
	goos    string
	run     Runner
	timeout time.Duration
}

func NewKeystroker() Keystroker {
	return &CommandKeystroker{goos: runtime.GOOS, run: execRunner, timeout: keystrokeTimeout}
}

func NewKeystrokerWithRunner(goos string, run Runner) *CommandKeystroker {
	return &CommandKeystroker{goos: goos, run: run, timeout: keystrokeTimeout}
}

var terminalClasses = []string{
	"terminal", "term", "konsole", "alacritty", "kitty", "wezterm", "tilix", "terminator", "urxvt", "foot",
}

func isTerminalClass(class string) bool {
	class = strings.ToLower(class)
	for _, t := range terminalClasses {
		if strings.Contains(class, t) {
			return true
		}
	}
	return false
}

func (k *CommandKeystroker) Paste(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	switch k.goos {
	case "darwin":
		_, err := k.run(ctx, "osascript", "-e", `tell application "System Events" to keystroke "v" using command down`)
		return err
	case "windows":
		_, err := k.run(ctx, "powershell", "-NoProfile", "-Command",
			`Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait("^v")`)
		return err
	default:
		chord := "ctrl+v"
		if class, err := k.run(ctx, "xdotool", "getactivewindow", "getwindowclassname"); err == nil && isTerminalClass(string(class)) {
			chord = "ctrl+shift+v"
		}
		_, err := k.run(ctx, "xdotool", "key", "--clearmodifiers", chord)
		return err
	}
}
