// Package files discovers run result files on disk.
//
// Discovery resolves relative directories against its base path and matches
// file names with filepath.Glob patterns such as run_*.csv:
//
//	discovery := files.NewDiscovery(".")
//	runs, err := discovery.FindRunFiles(".", "run_*.csv")
//	if err != nil {
//	    // DISCOVERY error: no matching files
//	}
package files
