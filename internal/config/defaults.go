// Package config provides configuration loading and defaults for tablewatch.
package config

import "time"

// DefaultConfigDir is the default location for tablewatch configuration.
const DefaultConfigDir = "~/.config/tablewatch"

// DefaultDBName is the filename for the SQLite history database.
const DefaultDBName = "tablewatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// EnvPrefix prefixes environment overrides, e.g. TABLEWATCH_DATA_DIR.
const EnvPrefix = "TABLEWATCH"

// DefaultDataDir is where POS snapshot JSON files are read from.
const DefaultDataDir = "~/.config/tablewatch/data"

// DefaultFilter is the date filter used when none is given.
const DefaultFilter = "week"

// DefaultEngine holds the default engine tuning.
var DefaultEngine = Engine{
	LeadTimeDays:    3,
	MinComboSupport: 0.05,
	Parallel:        true,
}

// DefaultLog holds the default logging setup.
var DefaultLog = Log{
	Level:  "info",
	Format: "console",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultServer holds the default HTTP listen address.
var DefaultServer = Server{
	Addr: "127.0.0.1:8088",
}

// DefaultWatch holds the default watch loop settings.
var DefaultWatch = Watch{
	Interval: 5 * time.Minute,
}
