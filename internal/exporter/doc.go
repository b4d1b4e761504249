// Package exporter writes the aggregated pivot tables to an Excel workbook
// so the numbers behind the heatmaps can be inspected directly.
package exporter
