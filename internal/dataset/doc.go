// Package dataset assembles run result files into one in-memory table and
// computes the derived metrics and aggregations the charts are drawn from.
//
// # Data Flow
//
//	run_*.csv -> LoadFiles -> Table -> Derive (deltaC, logTauL) -> Pivot / GroupStats / GroupValues
//
// Values are float64 with NaN as the undefined marker. Empty cells read as
// undefined; a non-numeric cell in a column read numerically is a PARSING
// error, and reading a column the table lacks is a SCHEMA error raised at
// that point.
package dataset
