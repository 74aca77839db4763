package hashval

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the hashval configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// DigestConfig represents digest provider configuration
type DigestConfig struct {
	Algorithm string // Digest algorithm: md5, none
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Value format: hex, dec, bin, multihash
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (default: 4)
	HashBuffer  string // Stream chunk size (default: "1K")
}

// AllConfig represents all configuration options
type AllConfig struct {
	Digest      *DigestConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

var configDefaults = []struct {
	section, key, value string
}{
	{"digest", "algorithm", "md5"},
	{"output", "format", FormatHex},
	{"verbose", "level", "0"},
	{"verbose", "debug", ""},
	{"performance", "hash_workers", "4"},
	{"performance", "hash_buffer", "1K"},
}

// LoadConfig loads configuration from configPath, creating a default file if it does not exist.
// An empty configPath gives the defaults without touching disk.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{configPath: configPath}

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
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
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
	for _, d := range configDefaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// GetDigestConfig returns the digest configuration
func (c *Config) GetDigestConfig() *DigestConfig {
	digestConfig := &DigestConfig{
		Algorithm: "md5", // fallback default
	}

	if c.ini.HasSection("digest") {
		section := c.ini.Section("digest")
		if section.HasKey("algorithm") {
			digestConfig.Algorithm = section.Key("algorithm").String()
		}
	}

	return digestConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatHex, // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

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

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: 4,    // fallback default
		HashBuffer:  "1K", // fallback default
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Digest:      c.GetDigestConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// SetDigestAlgorithm sets the digest algorithm
func (c *Config) SetDigestAlgorithm(algorithm string) error {
	if err := ValidateDigestAlgorithm(algorithm); err != nil {
		return err
	}
	c.ini.Section("digest").Key("algorithm").SetValue(algorithm)
	return c.Save()
}

// SetOutputFormat sets the default output format
func (c *Config) SetOutputFormat(format string) error {
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	c.ini.Section("output").Key("format").SetValue(format)
	return c.Save()
}

// SetHashWorkers sets the number of hash workers
func (c *Config) SetHashWorkers(workers int) error {
	if err := ValidateHashWorkers(workers); err != nil {
		return err
	}
	c.ini.Section("performance").Key("hash_workers").SetValue(fmt.Sprintf("%d", workers))
	return c.Save()
}

// Save saves the configuration to disk. A config loaded without a path is not saved.
func (c *Config) Save() error {
	if c.configPath == "" {
		return nil
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "algorithm:md5", "format:dec", "level:2", "hash_buffer:4K"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		var section string
		switch key {
		case "algorithm":
			section = "digest"
		case "format":
			section = "output"
		case "level", "debug":
			section = "verbose"
		case "hash_workers", "hash_buffer":
			section = "performance"
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: algorithm, format, level, debug, hash_workers, hash_buffer)", key)
		}
		c.ini.Section(section).Key(key).SetValue(value)
	}

	return nil
}

// Validate checks every configured value
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	if err := ValidateDigestAlgorithm(all.Digest.Algorithm); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateHashWorkers(all.Performance.HashWorkers); err != nil {
		return err
	}
	if _, err := ParseHumanSize(all.Performance.HashBuffer); err != nil {
		return fmt.Errorf("invalid hash_buffer: %w", err)
	}
	return nil
}

// NewHasherFromConfig builds a Hasher from the digest and performance settings
func (c *Config) NewHasherFromConfig(fs FileSystem) (*Hasher, error) {
	provider, err := GetDigestProvider(c.GetDigestConfig().Algorithm)
	if err != nil {
		return nil, err
	}
	bufferSize, err := ParseHumanSize(c.GetPerformanceConfig().HashBuffer)
	if err != nil {
		return nil, fmt.Errorf("invalid hash_buffer: %w", err)
	}
	hasher := NewHasher(provider, fs)
	hasher.BufferSize = bufferSize
	return hasher, nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatHex, FormatDec, FormatBin, FormatMultihash:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: hex, dec, bin, multihash)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}
