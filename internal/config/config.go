package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/checks"
	"a11ycheck/internal/engine"
)

// Config is the full scan configuration. Values come from an optional YAML
// file; CLI flags override file values field by field.
type Config struct {
	// Locale selects the message catalog locale for rendered output.
	Locale string

	// Checks selects which checks to run (comma-separated kind names; see
	// --checks). Empty means all registered checks.
	Checks string

	// Concurrency bounds how many checks evaluate at once (see --concurrency).
	Concurrency int

	// Parameters is shared evaluation tuning passed to every check.
	Parameters *checks.Parameters

	// Suppress mutes findings per check kind; an empty ID list mutes the
	// whole check. Suppressed findings stay in the output reclassified as
	// SUPPRESSED.
	Suppress engine.Suppressions

	Output Output
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilter keeps only the listed classifications on the console
	// (see --console-filter). Values are classification names like WARNING.
	ConsoleFilter []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out: json or ndjson. If empty it
	// is inferred from the file extension.
	OutFormat string

	// BinOut writes results to this path as length-delimited binary wire
	// messages (see --bin-out); they can be rendered later with "report".
	BinOut string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

// New returns the defaults applied before any file or flag.
func New() *Config {
	return &Config{
		Locale:      "en",
		Concurrency: 4,
		Output: Output{
			ConsoleFormat: "text",
		},
	}
}

// fileConfig is the YAML shape. Parameters stays a loose map here and is
// decoded into the typed struct separately so unknown parameter names fail
// with a useful error.
type fileConfig struct {
	Locale      string             `yaml:"locale"`
	Checks      string             `yaml:"checks"`
	Concurrency int                `yaml:"concurrency"`
	Parameters  map[string]any     `yaml:"parameters"`
	Suppress    map[string][]int32 `yaml:"suppress"`
	Output      struct {
		ConsoleFormat string   `yaml:"console_format"`
		ConsoleFilter []string `yaml:"console_filter"`
		Out           string   `yaml:"out"`
		OutFormat     string   `yaml:"out_format"`
		BinOut        string   `yaml:"bin_out"`
		NoConsole     bool     `yaml:"no_console"`
	} `yaml:"output"`
}

// LoadFile merges a YAML config file into cfg. Only fields present in the
// file are touched.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if fc.Locale != "" {
		cfg.Locale = fc.Locale
	}
	if fc.Checks != "" {
		cfg.Checks = fc.Checks
	}
	if fc.Concurrency != 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if fc.Parameters != nil {
		params, err := decodeParameters(fc.Parameters)
		if err != nil {
			return err
		}
		cfg.Parameters = params
	}
	if fc.Suppress != nil {
		cfg.Suppress = engine.Suppressions(fc.Suppress)
	}
	if fc.Output.ConsoleFormat != "" {
		cfg.Output.ConsoleFormat = fc.Output.ConsoleFormat
	}
	if fc.Output.ConsoleFilter != nil {
		cfg.Output.ConsoleFilter = fc.Output.ConsoleFilter
	}
	if fc.Output.Out != "" {
		cfg.Output.Out = fc.Output.Out
	}
	if fc.Output.OutFormat != "" {
		cfg.Output.OutFormat = fc.Output.OutFormat
	}
	if fc.Output.BinOut != "" {
		cfg.Output.BinOut = fc.Output.BinOut
	}
	if fc.Output.NoConsole {
		cfg.Output.NoConsole = true
	}
	return nil
}

func decodeParameters(raw map[string]any) (*checks.Parameters, error) {
	var params checks.Parameters
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &params,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}
	return &params, nil
}

// Validate checks cross-field constraints after file and flags are merged.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	switch c.Output.ConsoleFormat {
	case "text", "json", "ndjson":
	default:
		return fmt.Errorf("unsupported console format %q", c.Output.ConsoleFormat)
	}
	if c.Output.OutFormat != "" && c.Output.Out == "" {
		return fmt.Errorf("--out-format requires --out")
	}
	switch c.Output.OutFormat {
	case "", "json", "ndjson":
	default:
		return fmt.Errorf("unsupported out format %q", c.Output.OutFormat)
	}
	for _, f := range c.Output.ConsoleFilter {
		if _, err := checkresult.ParseClassification(f); err != nil {
			return fmt.Errorf("console filter: %w", err)
		}
	}
	return nil
}
