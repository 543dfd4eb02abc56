package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level tablewatch configuration.
type Config struct {
	DataDir       string `mapstructure:"data_dir"`
	DefaultFilter string `mapstructure:"default_filter"`
	Engine        Engine `mapstructure:"engine"`
	Log           Log    `mapstructure:"log"`
	Output        Output `mapstructure:"output"`
	Server        Server `mapstructure:"server"`
	Watch         Watch  `mapstructure:"watch"`
}

// Engine tunes the insight heuristics.
type Engine struct {
	LeadTimeDays    int     `mapstructure:"lead_time_days"`
	MinComboSupport float64 `mapstructure:"min_combo_support"`
	Parallel        bool    `mapstructure:"parallel"`
}

// Log defines logger level and encoding ("console" or "json").
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Server defines the HTTP surface.
type Server struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Watch defines the polling loop.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// loadDotEnv exports variables from a .env file that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from the given path (or the default location),
// applies TABLEWATCH_* environment overrides (including those from a .env
// file in the working directory) and returns a Config with all defaults
// applied.
func Load(cfgFile string) (*Config, error) {
	if err := loadDotEnv(DefaultEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("default_filter", DefaultFilter)
	v.SetDefault("engine.lead_time_days", DefaultEngine.LeadTimeDays)
	v.SetDefault("engine.min_combo_support", DefaultEngine.MinComboSupport)
	v.SetDefault("engine.parallel", DefaultEngine.Parallel)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("watch.interval", DefaultWatch.Interval)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatch.Interval
	}
	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
