package insight

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Source supplies a fresh snapshot for every call.
type Source func() (*pos.Snapshot, error)

// DirSource loads snapshots from a data directory of JSON files.
func DirSource(dir string) Source {
	return func() (*pos.Snapshot, error) {
		return pos.LoadSnapshot(dir)
	}
}

// StaticSource always returns snap.
func StaticSource(snap *pos.Snapshot) Source {
	return func() (*pos.Snapshot, error) {
		if snap == nil {
			return nil, pos.ErrNilSnapshot
		}
		return snap, nil
	}
}

// Report bundles every output of one analysis pass over a single snapshot.
type Report struct {
	Filter          analyzer.Filter       `json:"filter"`
	GeneratedAt     time.Time             `json:"generated_at"`
	Insights        []Insight             `json:"insights"`
	Failures        []RuleError           `json:"failures,omitempty"`
	Stats           AIStats               `json:"stats"`
	Predictions     []InventoryPrediction `json:"inventory_predictions"`
	Recommendations []MenuRecommendation  `json:"menu_recommendations"`
	Forecast        Forecast              `json:"forecast"`
}

// Service loads a snapshot and runs the engine for the CLI, HTTP, MCP and
// watch surfaces. It holds no analysis state between calls.
type Service struct {
	source Source
	engine *Engine
	opts   Options
	now    func() time.Time
}

// NewService creates a service reading from source.
func NewService(source Source, engine *Engine, opts Options) *Service {
	if engine == nil {
		engine = NewEngine(nil, true)
	}
	return &Service{source: source, engine: engine, opts: opts, now: time.Now}
}

// WithClock replaces the wall clock, for tests and replays.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) load() (*pos.Snapshot, error) {
	snap, err := s.source()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("loading snapshot: %w", pos.ErrNilSnapshot)
	}
	return snap, nil
}

func (s *Service) context(f analyzer.Filter) (*AnalysisContext, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return NewContext(snap, f, s.now(), s.opts)
}

// Insights runs the rule engine over the filter's window.
func (s *Service) Insights(f analyzer.Filter) (Result, error) {
	ctx, err := s.context(f)
	if err != nil {
		return Result{}, err
	}
	return s.engine.Run(ctx), nil
}

// Stats summarises the trailing week.
func (s *Service) Stats() (AIStats, error) {
	snap, err := s.load()
	if err != nil {
		return AIStats{}, err
	}
	return BuildStats(snap, s.now(), s.opts)
}

// InventoryPredictions forecasts every inventory item.
func (s *Service) InventoryPredictions() ([]InventoryPrediction, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return BuildInventoryPredictions(snap.Inventory, s.opts.LeadTimeDays), nil
}

// MenuRecommendations suggests menu changes for the filter's window.
func (s *Service) MenuRecommendations(f analyzer.Filter) ([]MenuRecommendation, error) {
	ctx, err := s.context(f)
	if err != nil {
		return nil, err
	}
	return BuildMenuRecommendations(ctx), nil
}

// Forecast projects sales and sentiment for the filter's window.
func (s *Service) Forecast(f analyzer.Filter) (Forecast, error) {
	ctx, err := s.context(f)
	if err != nil {
		return Forecast{}, err
	}
	return BuildForecast(ctx), nil
}

// Report runs every builder against one snapshot load.
func (s *Service) Report(f analyzer.Filter) (*Report, error) {
	ctx, err := s.context(f)
	if err != nil {
		return nil, err
	}
	stats, err := BuildStats(ctx.Snapshot, ctx.Now, s.opts)
	if err != nil {
		return nil, err
	}
	res := s.engine.Run(ctx)
	return &Report{
		Filter:          f,
		GeneratedAt:     ctx.Now,
		Insights:        res.Insights,
		Failures:        res.Failures,
		Stats:           stats,
		Predictions:     BuildInventoryPredictions(ctx.Snapshot.Inventory, ctx.Options.LeadTimeDays),
		Recommendations: BuildMenuRecommendations(ctx),
		Forecast:        BuildForecast(ctx),
	}, nil
}
