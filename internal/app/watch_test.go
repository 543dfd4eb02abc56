package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tablewatch/internal/watcher"
)

func TestAcquirePIDFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	release, err := acquirePIDFile()
	require.NoError(t, err)

	pid, err := readPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	// This process is alive, so a second daemon is refused.
	_, err = acquirePIDFile()
	assert.ErrorContains(t, err, "already running")

	release()
	_, err = os.Stat(pidFilePath())
	assert.True(t, os.IsNotExist(err))
}

func TestStopDaemon_NoPIDFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := stopDaemon(&bytes.Buffer{})
	assert.ErrorContains(t, err, "no daemon running")
}

func TestReadPID_TrimsWhitespace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(pidFilePath()), 0o755))
	require.NoError(t, os.WriteFile(pidFilePath(), []byte(strconv.Itoa(4242)+"\n"), 0o644))

	pid, err := readPID()
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)
}

func TestPrintAlert(t *testing.T) {
	var buf bytes.Buffer
	printAlert(&buf, watcher.Alert{
		Level:   watcher.LevelCritical,
		Title:   "Low stock: Buns",
		Message: "Buns will run out in 1 day",
		Time:    time.Date(2026, 10, 19, 14, 30, 5, 0, time.UTC),
	})

	assert.Equal(t, "[14:30:05] "+alertIcon(watcher.LevelCritical)+" Low stock: Buns\n"+
		"         Buns will run out in 1 day\n", buf.String())
}

func TestWriteLog(t *testing.T) {
	var buf bytes.Buffer
	writeLog(&buf, "daemon %s", "stopped")
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] daemon stopped\n$`, buf.String())
}
