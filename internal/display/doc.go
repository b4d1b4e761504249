// Package display presents rendered charts: not at all (none), in the
// platform image viewer (open), or through a local HTTP gallery that runs
// until the process is interrupted (serve).
package display
