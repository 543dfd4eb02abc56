// Package report exports an analysis report as an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/blackwell-systems/tablewatch/internal/insight"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetInsights  = "Insights"
	SheetInventory = "Inventory"
	SheetMenu      = "Menu"
	SheetForecast  = "Forecast"
)

// Build lays out rep as a workbook. The caller must Close the result.
func Build(rep *insight.Report) (*excelize.File, error) {
	if rep == nil {
		return nil, fmt.Errorf("building workbook: nil report")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetInsights, SheetInventory, SheetMenu, SheetForecast} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("adding sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"7C3AED"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	w.summary(rep)
	w.insights(rep.Insights)
	w.inventory(rep.Predictions)
	w.menu(rep.Recommendations)
	w.forecast(rep.Forecast)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// Write encodes rep as .xlsx to out.
func Write(out io.Writer, rep *insight.Report) error {
	f, err := Build(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Save writes rep to path.
func Save(path string, rep *insight.Report) error {
	f, err := Build(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, n int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, widths []float64, titles ...any) {
	w.row(sheet, 1, titles...)
	if w.err != nil {
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		w.err = err
		return
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			w.err = err
			return
		}
	}
}

func (w *sheetWriter) summary(rep *insight.Report) {
	s := rep.Stats
	w.headerRow(SheetSummary, []float64{28, 24}, "Metric", "Value")
	rows := [][]any{
		{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04")},
		{"Filter", string(rep.Filter)},
		{"Total revenue", s.TotalRevenue},
		{"Total orders", s.TotalOrders},
		{"Average order value", s.AverageOrderValue},
		{"Revenue growth %", s.RevenueGrowthPercent},
		{"Average rating", s.AverageRating},
		{"Kitchen efficiency %", s.KitchenEfficiency},
		{"Table utilization %", s.TableUtilization},
		{"Critical stock items", s.CriticalStockItems},
		{"Top selling item", s.TopSellingItem},
	}
	for i, r := range rows {
		w.row(SheetSummary, i+2, r...)
	}
	for i, fail := range rep.Failures {
		w.row(SheetSummary, len(rows)+i+2, "Rule failed", fail.Error())
	}
}

func (w *sheetWriter) insights(insights []insight.Insight) {
	w.headerRow(SheetInsights, []float64{24, 12, 16, 10, 40, 60, 10},
		"ID", "Priority", "Type", "Confidence", "Title", "Description", "Actionable")
	for i, in := range insights {
		w.row(SheetInsights, i+2, in.ID, string(in.Priority), string(in.Type), in.Confidence, in.Title, in.Description, in.Actionable)
	}
}

func (w *sheetWriter) inventory(preds []insight.InventoryPrediction) {
	w.headerRow(SheetInventory, []float64{24, 16, 12, 12, 14, 14, 10},
		"Item", "Category", "Stock", "Daily use", "Out of stock", "Reorder", "Confidence")
	for i, p := range preds {
		w.row(SheetInventory, i+2, p.Item, p.Category, p.CurrentStock, p.DailyUsage, p.PredictedOutOfStock, p.RecommendedReorder, p.Confidence)
	}
}

func (w *sheetWriter) menu(recs []insight.MenuRecommendation) {
	w.headerRow(SheetMenu, []float64{28, 16, 60, 40, 10, 10},
		"Item", "Source", "Reason", "Expected impact", "Price", "Confidence")
	for i, r := range recs {
		w.row(SheetMenu, i+2, r.Item, r.Source, r.Reason, r.ExpectedImpact, r.Price, r.Confidence)
	}
}

func (w *sheetWriter) forecast(fc insight.Forecast) {
	w.headerRow(SheetForecast, []float64{16, 14}, "Day", "Revenue")
	n := 2
	for _, d := range fc.Sales.Days {
		w.row(SheetForecast, n, d.Day, d.Revenue)
		n++
	}
	n++
	sent := fc.Sentiment
	for _, r := range [][]any{
		{"Projected total", fc.Sales.ProjectedRevenue},
		{"Trend %", fc.Sales.TrendPercent},
		{"Confidence", fc.Sales.Confidence},
		{"Positive %", sent.Positive},
		{"Neutral %", sent.Neutral},
		{"Negative %", sent.Negative},
		{"Rated orders", sent.Samples},
	} {
		w.row(SheetForecast, n, r...)
		n++
	}
}
