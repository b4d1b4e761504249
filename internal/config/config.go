package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override (RUNCHARTS_INPUT_DIR, ...).
const EnvPrefix = "RUNCHARTS"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Display   DisplayConfig   `yaml:"display" envconfig:"DISPLAY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig controls run file discovery and loading
type InputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Pattern      string `yaml:"pattern" envconfig:"PATTERN" validate:"required"`
	StrictSchema bool   `yaml:"strict_schema" envconfig:"STRICT_SCHEMA"`
}

// OutputConfig controls where artifacts are written
type OutputConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK"`
}

// ChartsConfig holds chart file names, colormaps and the forecast-useful zone
type ChartsConfig struct {
	TauHeatmap        string  `yaml:"tau_heatmap" envconfig:"TAU_HEATMAP" validate:"required"`
	DeltaCHeatmap     string  `yaml:"deltac_heatmap" envconfig:"DELTAC_HEATMAP" validate:"required"`
	DeltaCVsNoise     string  `yaml:"deltac_vs_noise" envconfig:"DELTAC_VS_NOISE" validate:"required"`
	DeltaCVsK         string  `yaml:"deltac_vs_k" envconfig:"DELTAC_VS_K" validate:"required"`
	TauLVsNoise       string  `yaml:"taul_vs_noise" envconfig:"TAUL_VS_NOISE" validate:"required"`
	DeltaCVsForesight string  `yaml:"deltac_vs_foresight" envconfig:"DELTAC_VS_FORESIGHT" validate:"required"`
	TauColormap       string  `yaml:"tau_colormap" envconfig:"TAU_COLORMAP" validate:"oneof=viridis magma plasma"`
	DeltaCColormap    string  `yaml:"deltac_colormap" envconfig:"DELTAC_COLORMAP" validate:"oneof=viridis magma plasma"`
	ScatterColormap   string  `yaml:"scatter_colormap" envconfig:"SCATTER_COLORMAP" validate:"oneof=viridis magma plasma"`
	ZoneMin           float64 `yaml:"zone_min" envconfig:"ZONE_MIN"`
	ZoneMax           float64 `yaml:"zone_max" envconfig:"ZONE_MAX" validate:"gtfield=ZoneMin"`
	DPI               int     `yaml:"dpi" envconfig:"DPI" validate:"min=24,max=600"`
}

// DisplayConfig selects how rendered charts are shown
type DisplayConfig struct {
	Mode string `yaml:"mode" envconfig:"MODE" validate:"oneof=none open serve"`
	Addr string `yaml:"addr" envconfig:"ADDR" validate:"required_if=Mode serve"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics export configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration. With no file and no environment
// overrides these values reproduce the fixed behavior of the chart script.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:     ".",
			Pattern: "run_*.csv",
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Charts: ChartsConfig{
			TauHeatmap:        "tau_heatmap.png",
			DeltaCHeatmap:     "deltaC_heatmap.png",
			DeltaCVsNoise:     "deltaC_vs_noise.png",
			DeltaCVsK:         "deltaC_vs_K_TauL.png",
			TauLVsNoise:       "tauL_vs_noise.png",
			DeltaCVsForesight: "deltaC_vs_foresight_ridge.png",
			TauColormap:       "viridis",
			DeltaCColormap:    "magma",
			ScatterColormap:   "plasma",
			ZoneMin:           3,
			ZoneMax:           15,
			DPI:               100,
		},
		Display: DisplayConfig{
			Mode: "none",
			Addr: "localhost:8765",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "runcharts",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// RUNCHARTS_* environment variables, in increasing order of precedence.
// An empty path searches the usual locations; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Display.Mode = strings.ToLower(c.Display.Mode)

	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fmt.Sprint(fe.Value()))
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", fe.Namespace(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"runcharts.yaml",
		"configs/runcharts.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}
