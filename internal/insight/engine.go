package insight

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/tablewatch/internal/metrics"
)

// namedRule pairs a rule with its metric label and per-call output cap.
type namedRule struct {
	name  string
	limit int
	run   Rule
}

// Engine runs all registered rules against an AnalysisContext and collects
// the resulting insights.
type Engine struct {
	rules    []namedRule
	logger   *zap.Logger
	parallel bool
}

// Result is the outcome of one synthesis call. Failures lists the rules
// whose output was dropped because they panicked.
type Result struct {
	Insights []Insight   `json:"insights"`
	Failures []RuleError `json:"failures,omitempty"`
}

// NewEngine creates an engine with all built-in rules registered in their
// fixed order. A nil logger discards rule failures.
func NewEngine(logger *zap.Logger, parallel bool) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rules: []namedRule{
			{name: "popularity", limit: 1, run: PopularityRule},
			{name: "stock", limit: 2, run: StockRule},
			{name: "peak_hour", limit: 1, run: PeakHourRule},
			{name: "revenue_trend", limit: 1, run: RevenueTrendRule},
			{name: "satisfaction", limit: 1, run: SatisfactionRule},
			{name: "utilization", limit: 1, run: UtilizationRule},
		},
		logger:   logger,
		parallel: parallel,
	}
}

// Run executes every rule and returns the insights ranked by priority.
// A panicking rule contributes nothing; the others still report.
func (e *Engine) Run(ctx *AnalysisContext) Result {
	outputs := make([][]Insight, len(e.rules))
	failures := make([]*RuleError, len(e.rules))

	// A failed rule surfaces as the group's error; it never cancels the
	// other rules.
	var err error
	if e.parallel {
		var g errgroup.Group
		for i, r := range e.rules {
			g.Go(func() error {
				return e.runAt(ctx, i, r, outputs, failures)
			})
		}
		err = g.Wait()
	} else {
		for i, r := range e.rules {
			if rerr := e.runAt(ctx, i, r, outputs, failures); rerr != nil && err == nil {
				err = rerr
			}
		}
	}

	var res Result
	for i := range e.rules {
		if failures[i] != nil {
			res.Failures = append(res.Failures, *failures[i])
			continue
		}
		res.Insights = append(res.Insights, outputs[i]...)
	}
	if err != nil {
		e.logger.Warn("insight synthesis degraded",
			zap.Int("failed_rules", len(res.Failures)),
			zap.Error(err),
		)
	}
	for _, in := range res.Insights {
		metrics.InsightsEmitted.WithLabelValues(string(in.Type)).Inc()
	}
	res.Insights = RankInsights(res.Insights)
	return res
}

// runAt evaluates rule r into slot i and returns its failure, if any.
func (e *Engine) runAt(ctx *AnalysisContext, i int, r namedRule, outputs [][]Insight, failures []*RuleError) error {
	outputs[i], failures[i] = e.evaluate(ctx, r)
	if failures[i] != nil {
		return failures[i]
	}
	return nil
}

func (e *Engine) evaluate(ctx *AnalysisContext, r namedRule) (out []Insight, ruleErr *RuleError) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			ruleErr = &RuleError{Rule: r.name, Cause: fmt.Sprint(rec)}
			e.logger.Error("insight rule failed",
				zap.String("rule", r.name),
				zap.Any("panic", rec),
			)
		}
		metrics.ObserveRule(r.name, time.Since(start), ruleErr != nil)
	}()

	out = r.run(ctx)
	if len(out) > r.limit {
		out = out[:r.limit]
	}
	for i := range out {
		out[i].Confidence = clampConfidence(out[i].Confidence)
	}
	e.logger.Debug("insight rule evaluated",
		zap.String("rule", r.name),
		zap.Int("insights", len(out)),
	)
	return out, nil
}
