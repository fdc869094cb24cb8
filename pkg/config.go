package zipcdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Output formats understood by the lister
const (
	FormatNames = "names"
	FormatLong  = "long"
	FormatJSON  = "json"
)

// Config represents the zipls configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: names, long, json
	Human  bool   // Human-readable sizes in long format
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// InputConfig represents how archives are opened
type InputConfig struct {
	Mmap                bool   // Map archives rather than reading them into memory
	RequireZipExtension bool   // Refuse names not ending in .zip
	MaxSize             string // Largest archive accepted, e.g. "4G"; "0" = no limit
}

// ParseConfig represents parser limits
type ParseConfig struct {
	MaxEntries int // Reject directories declaring more entries, 0 = no limit
}

// AllConfig represents all configuration options
type AllConfig struct {
	Output  *OutputConfig
	Verbose *VerboseConfig
	Input   *InputConfig
	Parse   *ParseConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/zipls/config, falling back to
// ~/.config/zipls/config
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "zipls", "config")
}

// LoadConfig loads configuration from configPath. A missing file yields the
// defaults without touching the filesystem; call Save to write them out.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"output", "format", FormatNames},
		{"output", "human", "false"},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"input", "mmap", "true"},
		{"input", "require_zip_extension", "true"},
		{"input", "max_size", "0"},
		{"parse", "max_entries", "0"},
	}

	for _, d := range defaults {
		section := c.ini.Section(d.section)
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}

	return nil
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatNames, // fallback default
		Human:  false,
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = strings.ToLower(section.Key("format").String())
		}
		if section.HasKey("human") {
			if human, err := section.Key("human").Bool(); err == nil {
				outputConfig.Human = human
			}
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetInputConfig returns the input configuration
func (c *Config) GetInputConfig() *InputConfig {
	inputConfig := &InputConfig{
		Mmap:                true,
		RequireZipExtension: true,
		MaxSize:             "0",
	}

	if c.ini.HasSection("input") {
		section := c.ini.Section("input")
		if section.HasKey("mmap") {
			if mmap, err := section.Key("mmap").Bool(); err == nil {
				inputConfig.Mmap = mmap
			}
		}
		if section.HasKey("require_zip_extension") {
			if require, err := section.Key("require_zip_extension").Bool(); err == nil {
				inputConfig.RequireZipExtension = require
			}
		}
		if section.HasKey("max_size") {
			if maxSize := section.Key("max_size").String(); maxSize != "" {
				inputConfig.MaxSize = maxSize
			}
		}
	}

	return inputConfig
}

// GetParseConfig returns parser limits
func (c *Config) GetParseConfig() *ParseConfig {
	parseConfig := &ParseConfig{}

	if c.ini.HasSection("parse") {
		section := c.ini.Section("parse")
		if section.HasKey("max_entries") {
			if maxEntries, err := section.Key("max_entries").Int(); err == nil {
				parseConfig.MaxEntries = maxEntries
			}
		}
	}

	return parseConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Input:   c.GetInputConfig(),
		Parse:   c.GetParseConfig(),
	}
}

// ParseOptions builds parser options from the input and parse sections
func (c *Config) ParseOptions() (ParseOptions, error) {
	input := c.GetInputConfig()
	maxSize, err := ParseHumanSize(input.MaxSize)
	if err != nil {
		return ParseOptions{}, fmt.Errorf("input.max_size: %w", err)
	}
	return ParseOptions{
		MaxEntries:     c.GetParseConfig().MaxEntries,
		MaxArchiveSize: maxSize,
		NoMmap:         !input.Mmap,
	}, nil
}

// Validate checks every value a user may have edited into the file
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateMaxEntries(all.Parse.MaxEntries); err != nil {
		return err
	}
	if _, err := ParseHumanSize(all.Input.MaxSize); err != nil {
		return fmt.Errorf("input.max_size: %w", err)
	}
	return nil
}

// Path returns where Save writes the configuration
func (c *Config) Path() string {
	return c.configPath
}

// Save saves the configuration to disk, creating its directory if needed
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// overrideKeys maps override names to their section
var overrideKeys = map[string]string{
	"format":                "output",
	"human":                 "output",
	"level":                 "verbose",
	"debug":                 "verbose",
	"mmap":                  "input",
	"require_zip_extension": "input",
	"max_size":              "input",
	"max_entries":           "parse",
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "format:json", "level:2", "debug:eocd", "max_size:1G"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		sectionName, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: format, human, level, debug, mmap, require_zip_extension, max_size, max_entries)", key)
		}
		c.ini.Section(sectionName).Key(key).SetValue(value)
	}

	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatNames, FormatLong, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: names, long, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateMaxEntries rejects negative limits; a ZIP directory holds at most 65535 entries
func ValidateMaxEntries(maxEntries int) error {
	if maxEntries < 0 {
		return fmt.Errorf("max_entries must not be negative, got: %d", maxEntries)
	}
	if maxEntries > 0xFFFF {
		return fmt.Errorf("max_entries above 65535 has no effect, got: %d", maxEntries)
	}
	return nil
}
