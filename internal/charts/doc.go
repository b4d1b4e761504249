// Package charts renders the run charts to PNG with gonum.org/v1/plot.
//
// Heatmaps put the first index row at the top and leave undefined cells
// blank and unannotated. Line charts draw the per-x mean with a one
// standard deviation band. The K scatter colors each point by TauL and adds
// a color bar. Output bytes depend only on the input data and the
// configured DPI.
package charts
