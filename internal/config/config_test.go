package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultFilter, cfg.DefaultFilter)
	assert.Equal(t, DefaultEngine, cfg.Engine)
	assert.Equal(t, DefaultLog, cfg.Log)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultServer.Addr, cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval)
	assert.NotContains(t, cfg.DataDir, "~")
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "tablewatch.yaml")
	yaml := "data_dir: /srv/pos\n" +
		"default_filter: month\n" +
		"engine:\n  lead_time_days: 5\n  parallel: false\n" +
		"watch:\n  interval: 30s\n" +
		"server:\n  cors_origins: [\"http://pos.local\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("TABLEWATCH_SERVER_ADDR", ":9999")
	t.Setenv("TABLEWATCH_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/pos", cfg.DataDir)
	assert.Equal(t, "month", cfg.DefaultFilter)
	assert.Equal(t, 5, cfg.Engine.LeadTimeDays)
	assert.False(t, cfg.Engine.Parallel)
	assert.Equal(t, DefaultEngine.MinComboSupport, cfg.Engine.MinComboSupport)
	assert.Equal(t, 30*time.Second, cfg.Watch.Interval)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, []string{"http://pos.local"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".env"), []byte("TABLEWATCH_DEFAULT_FILTER=today\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TABLEWATCH_DEFAULT_FILTER") })

	cfg, err := Load(filepath.Join(wd, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "today", cfg.DefaultFilter)
}

func TestLoad_BadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
