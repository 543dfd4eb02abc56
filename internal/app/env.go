package app

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/config"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/logging"
	"github.com/blackwell-systems/tablewatch/internal/output"
)

// appEnv is what every data command needs: config, a logger and a service
// reading from the configured data directory.
type appEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *insight.Service
	filter  analyzer.Filter
}

// setup loads config, applies the global flags and builds the service.
func setup() (*appEnv, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagData != "" {
		cfg.DataDir = flagData
	}

	if flagNoColor {
		output.SetNoColor(true)
	} else {
		output.AutoColor(cfg.Output.Color)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	rawFilter := cfg.DefaultFilter
	if flagFilter != "" {
		rawFilter = flagFilter
	}
	filter, err := analyzer.ParseFilter(rawFilter)
	if err != nil {
		return nil, err
	}

	opts := insight.DefaultOptions()
	if cfg.Engine.LeadTimeDays > 0 {
		opts.LeadTimeDays = cfg.Engine.LeadTimeDays
	}
	if cfg.Engine.MinComboSupport > 0 {
		opts.MinComboSupport = cfg.Engine.MinComboSupport
	}

	engine := insight.NewEngine(logger, cfg.Engine.Parallel)
	logger.Debug("configured",
		zap.String("data_dir", cfg.DataDir),
		zap.String("filter", string(filter)),
		zap.Bool("parallel", cfg.Engine.Parallel))

	return &appEnv{
		cfg:     cfg,
		logger:  logger,
		service: insight.NewService(insight.DirSource(cfg.DataDir), engine, opts),
		filter:  filter,
	}, nil
}

func (e *appEnv) close() {
	_ = e.logger.Sync()
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
