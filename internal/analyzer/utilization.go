package analyzer

import "github.com/blackwell-systems/tablewatch/internal/pos"

// AnalyzeUtilization computes occupied / total tables. With no tables the
// efficiency is zero.
func AnalyzeUtilization(tables []pos.Table) Utilization {
	u := Utilization{TotalTables: len(tables)}
	for _, t := range tables {
		switch t.Status {
		case pos.TableOccupied:
			u.OccupiedTables++
		case pos.TableReserved:
			u.ReservedTables++
		}
	}
	if u.TotalTables > 0 {
		u.Efficiency = float64(u.OccupiedTables) / float64(u.TotalTables)
	}
	return u
}
