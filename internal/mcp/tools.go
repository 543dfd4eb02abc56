package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/insight"
)

// InsightsResult is the output of get_insights.
type InsightsResult struct {
	Filter   analyzer.Filter     `json:"filter"`
	Insights []insight.Insight   `json:"insights"`
	Failures []insight.RuleError `json:"failures,omitempty"`
}

// PredictionsResult is the output of get_inventory_predictions.
type PredictionsResult struct {
	Predictions []insight.InventoryPrediction `json:"predictions"`
	Critical    int                           `json:"critical"`
}

// RecommendationsResult is the output of get_menu_recommendations.
type RecommendationsResult struct {
	Filter          analyzer.Filter              `json:"filter"`
	Recommendations []insight.MenuRecommendation `json:"recommendations"`
}

const maxListLimit = 50

var (
	noArgsSchema  = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	filterSchema  = json.RawMessage(`{"type":"object","properties":{"filter":{"type":"string","enum":["today","yesterday","week","month","all"],"description":"Time window (default week)"}},"additionalProperties":false}`)
	insightSchema = json.RawMessage(`{"type":"object","properties":{"filter":{"type":"string","enum":["today","yesterday","week","month","all"],"description":"Time window (default week)"},"priority":{"type":"string","enum":["low","medium","high"],"description":"Minimum priority to include"}},"additionalProperties":false}`)
	limitSchema   = json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer","description":"Maximum items to return, most urgent first (default all)"}},"additionalProperties":false}`)
	askSchema     = json.RawMessage(`{"type":"object","properties":{"question":{"type":"string","description":"Free-text question about the restaurant"}},"required":["question"],"additionalProperties":false}`)
)

func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "get_insights",
		Description: "Ranked insights (popularity, low stock, peak hours, revenue trend, satisfaction, table use) for a time window.",
		InputSchema: insightSchema,
		Handler:     s.handleGetInsights,
	})
	s.registerTool(toolDef{
		Name:        "get_stats",
		Description: "Summary statistics for the trailing seven days: revenue, orders, rating, kitchen and table efficiency.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetStats,
	})
	s.registerTool(toolDef{
		Name:        "get_inventory_predictions",
		Description: "Days until each inventory item runs out with recommended reorder quantities.",
		InputSchema: limitSchema,
		Handler:     s.handleGetInventoryPredictions,
	})
	s.registerTool(toolDef{
		Name:        "get_menu_recommendations",
		Description: "Menu suggestions from combos, time-of-day demand, category growth and customer segments.",
		InputSchema: filterSchema,
		Handler:     s.handleGetMenuRecommendations,
	})
	s.registerTool(toolDef{
		Name:        "get_forecast",
		Description: "Seven-day sales projection and customer sentiment for a time window.",
		InputSchema: filterSchema,
		Handler:     s.handleGetForecast,
	})
	s.registerTool(toolDef{
		Name:        "ask",
		Description: "Answer a free-text question about sales, inventory, menu, customers, staff or prices.",
		InputSchema: askSchema,
		Handler:     s.handleAsk,
	})
}

// toolArgs is the union of every tool's optional arguments.
type toolArgs struct {
	Filter   string `json:"filter"`
	Priority string `json:"priority"`
	Limit    *int   `json:"limit"`
	Question string `json:"question"`
}

func parseArgs(raw json.RawMessage) (toolArgs, error) {
	var a toolArgs
	if len(raw) == 0 || string(raw) == "null" {
		return a, nil
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return a, fmt.Errorf("invalid arguments: %w", err)
	}
	return a, nil
}

func (s *Server) filterArg(a toolArgs) (analyzer.Filter, error) {
	if a.Filter == "" {
		return s.defaultFilter, nil
	}
	return analyzer.ParseFilter(a.Filter)
}

func (s *Server) handleGetInsights(raw json.RawMessage) (any, error) {
	a, err := parseArgs(raw)
	if err != nil {
		return nil, err
	}
	f, err := s.filterArg(a)
	if err != nil {
		return nil, err
	}
	res, err := s.service.Insights(f)
	if err != nil {
		return nil, err
	}

	insights := res.Insights
	if a.Priority != "" {
		insights = insight.FilterByPriority(insights, insight.Priority(strings.ToLower(a.Priority)))
	}
	if insights == nil {
		insights = []insight.Insight{}
	}
	return InsightsResult{Filter: f, Insights: insights, Failures: res.Failures}, nil
}

func (s *Server) handleGetStats(json.RawMessage) (any, error) {
	return s.service.Stats()
}

func (s *Server) handleGetInventoryPredictions(raw json.RawMessage) (any, error) {
	a, err := parseArgs(raw)
	if err != nil {
		return nil, err
	}
	preds, err := s.service.InventoryPredictions()
	if err != nil {
		return nil, err
	}

	result := PredictionsResult{Predictions: []insight.InventoryPrediction{}}
	for _, p := range preds {
		if p.DaysLeft <= analyzer.CriticalStockDays {
			result.Critical++
		}
	}
	n := len(preds)
	if a.Limit != nil && *a.Limit > 0 {
		n = min(*a.Limit, maxListLimit, n)
	}
	result.Predictions = append(result.Predictions, preds[:n]...)
	return result, nil
}

func (s *Server) handleGetMenuRecommendations(raw json.RawMessage) (any, error) {
	a, err := parseArgs(raw)
	if err != nil {
		return nil, err
	}
	f, err := s.filterArg(a)
	if err != nil {
		return nil, err
	}
	recs, err := s.service.MenuRecommendations(f)
	if err != nil {
		return nil, err
	}
	return RecommendationsResult{Filter: f, Recommendations: recs}, nil
}

func (s *Server) handleGetForecast(raw json.RawMessage) (any, error) {
	a, err := parseArgs(raw)
	if err != nil {
		return nil, err
	}
	f, err := s.filterArg(a)
	if err != nil {
		return nil, err
	}
	return s.service.Forecast(f)
}

func (s *Server) handleAsk(raw json.RawMessage) (any, error) {
	a, err := parseArgs(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Question) == "" {
		return nil, errors.New("question is required")
	}
	return s.responder.Respond(a.Question), nil
}
