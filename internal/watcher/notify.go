package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// notifyCommand builds the desktop notification command for alert on the
// current platform, or nil where none is known.
func notifyCommand(goos string, alert Alert) *exec.Cmd {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "tablewatch" subtitle %q`, alert.Message, alert.Title)
		return exec.Command("osascript", "-e", script)
	case "linux":
		if _, err := exec.LookPath("notify-send"); err != nil {
			return nil
		}
		return exec.Command("notify-send", "-u", urgency(alert.Level), "tablewatch: "+alert.Title, alert.Message)
	default:
		return nil
	}
}

// Notify shows alert as a desktop notification (osascript on macOS,
// notify-send on Linux). When neither is available or the command fails
// the alert is written to stderr.
func Notify(alert Alert) error {
	if cmd := notifyCommand(runtime.GOOS, alert); cmd != nil && cmd.Run() == nil {
		return nil
	}
	return notifyFallback(alert)
}

// urgency maps an alert level to a notify-send urgency.
func urgency(level string) string {
	switch level {
	case LevelCritical:
		return "critical"
	case LevelInfo:
		return "low"
	default:
		return "normal"
	}
}

func notifyFallback(alert Alert) error {
	return writeAlert(os.Stderr, alert)
}

func writeAlert(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
