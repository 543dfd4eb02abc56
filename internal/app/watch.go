package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/config"
	"github.com/blackwell-systems/tablewatch/internal/watcher"
)

const minWatchInterval = 30 * time.Second

var (
	watchDaemon   bool
	watchInterval string
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor POS data and alert on stock, rating and revenue changes",
	Long: `Run a monitor that periodically re-reads the POS data directory and
recomputes insights. When something notable happens (a new high priority
insight, stock running low, ratings or revenue dropping, a rule failing),
desktop notifications and terminal alerts are emitted.

Examples:
  tablewatch watch                    # run in foreground (ctrl-c to stop)
  tablewatch watch --daemon           # run in background, write PID file
  tablewatch watch --interval 2m      # check every 2 minutes (default from config)
  tablewatch watch --stop             # stop the background daemon`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "Check interval as duration string (e.g. 5m, 1h)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon(cmd.OutOrStdout())
	}

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	interval, err := resolveInterval(watchInterval, env.cfg.Watch.Interval)
	if err != nil {
		return err
	}

	if watchDaemon {
		return runDaemon(env, interval)
	}
	return runForeground(cmd.OutOrStdout(), env, interval)
}

// resolveInterval prefers the flag over the configured interval.
func resolveInterval(flag string, configured time.Duration) (time.Duration, error) {
	interval := configured
	if flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		interval = d
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// runForeground runs the watcher with live terminal output.
func runForeground(out io.Writer, env *appEnv, interval time.Duration) error {
	if !watchQuiet {
		fmt.Fprintf(out, "tablewatch watching %s... (checking every %s)\n", env.cfg.DataDir, interval)
	}

	w := watcher.New(env.service, env.filter, interval, func(a watcher.Alert) {
		_ = watcher.Notify(a)
		if !watchQuiet {
			printAlert(out, a)
		}
	}).WithLogger(env.logger)

	baseline, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}
	if !watchQuiet {
		fmt.Fprintf(out, "[%s] %s Baseline: %d orders this week, %d high priority insights, %d critical stock items\n",
			time.Now().Format("15:04:05"), checkMark(),
			baseline.Stats.TotalOrders, len(baseline.OpenHigh), baseline.Stats.CriticalStockItems)
	}

	stopped, err := runUntilSignal(w)
	if stopped && !watchQuiet {
		fmt.Fprintln(out, "\nStopped.")
	}
	return err
}

// runDaemon runs the watcher with alerts appended to the daemon log. The
// caller backgrounds the process (nohup, &, a service manager); Go cannot
// fork reliably.
func runDaemon(env *appEnv, interval time.Duration) error {
	release, err := acquirePIDFile()
	if err != nil {
		return err
	}
	defer release()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	writeLog(logFile, "tablewatch daemon started (PID %d, interval %s, data %s)", os.Getpid(), interval, env.cfg.DataDir)

	w := watcher.New(env.service, env.filter, interval, func(a watcher.Alert) {
		_ = watcher.Notify(a)
		writeLog(logFile, "[%s] %s: %s", a.Level, a.Title, a.Message)
	}).WithLogger(env.logger)

	stopped, err := runUntilSignal(w)
	if stopped {
		writeLog(logFile, "daemon stopped")
	}
	return err
}

// runUntilSignal runs w until SIGINT/SIGTERM. stopped reports a clean
// signal-driven exit, which is not an error.
func runUntilSignal(w *watcher.Watcher) (stopped bool, err error) {
	ctx, cancel := signalContext()
	defer cancel()

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return true, nil
	}
	return false, err
}

// acquirePIDFile records this process as the daemon, refusing when a live
// daemon already holds the file. release removes it.
func acquirePIDFile() (release func(), err error) {
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if pid, err := readPID(); err == nil && processExists(pid) {
		return nil, fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
	}
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("writing PID file: %w", err)
	}
	return func() { _ = os.Remove(pidFilePath()) }, nil
}

// stopDaemon terminates the daemon named in the PID file. A PID file left
// by a dead process is removed and reported.
func stopDaemon(out io.Writer) error {
	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no daemon running (could not read PID file: %v)", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	if !processExists(pid) {
		return fmt.Errorf("no daemon running (PID %d is gone, removed its PID file)", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}
	fmt.Fprintf(out, "Stopped daemon (PID %d)\n", pid)
	return nil
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// writeLog appends a timestamped line.
func writeLog(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}

// printAlert formats and prints an alert to the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Fprintf(w, "[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return "\xf0\x9f\x94\xb4" // red circle
	case watcher.LevelWarning:
		return "\xe2\x9a\xa0\xef\xb8\x8f" // warning sign
	case watcher.LevelInfo:
		return "\xe2\x9c\x93" // check mark
	default:
		return " "
	}
}

func checkMark() string {
	return "\xe2\x9c\x93"
}
