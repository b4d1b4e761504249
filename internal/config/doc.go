// Package config provides centralized configuration management for runcharts.
//
// # Configuration Sources
//
// Configuration is resolved from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (runcharts.yaml or configs/runcharts.yaml, or -config)
//	3. Default values (lowest priority)
//
// The defaults reproduce the fixed behavior of the original chart script:
// run files matching run_*.csv in the working directory, six PNG charts
// written next to them, and no interactive display.
//
// # Environment Variables
//
// All environment variables follow the pattern RUNCHARTS_<SECTION>_<FIELD>:
//
//	RUNCHARTS_INPUT_DIR=./results
//	RUNCHARTS_INPUT_STRICT_SCHEMA=true
//	RUNCHARTS_OUTPUT_WORKBOOK=pivots.xlsx
//	RUNCHARTS_DISPLAY_MODE=serve
//	RUNCHARTS_LOGGING_LEVEL=debug
//
// # Validation
//
// Load validates the merged result with go-playground/validator struct tags.
// Colormap names, display modes and log settings are closed sets, and the
// forecast-useful zone must have ZoneMax > ZoneMin.
package config
