// Package pipeline wires the run chart stages together.
//
// A run collects the run files, prints "Found N files." to standard output,
// assembles one table, derives deltaC and logTauL, builds the TauL and
// deltaC pivots and the forecast-useful subset, renders six charts, writes
// the optional pivot workbook and finally closes the displayer. Each stage
// runs in its own span named runcharts.stage.<name>.
package pipeline
