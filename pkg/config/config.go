/*
Package config manages the TOML config for WordTrie services.

A missing file is created with defaults. A file with type errors is
recovered section by section: valid keys are kept and the rest fall back to
their defaults. A file that cannot be parsed at all yields the defaults.
*/
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the default config file name.
const FileName = "wordtrie.toml"

// MaxLimitCeiling bounds max_limit since suggestion ranks are uint16.
const MaxLimitCeiling = math.MaxUint16

// ErrInvalidServerConfig marks server limits that cannot be served.
var ErrInvalidServerConfig = errors.New("invalid server config")

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig selects the completion backend and its startup history.
type EngineConfig struct {
	Backend  string `toml:"backend"`
	SeedFile string `toml:"seed_file"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableFilter bool `toml:"enable_filter"`
}

// Validate checks that the limits describe a servable range:
// 1 <= max_limit <= MaxLimitCeiling and 0 <= min_prefix <= max_prefix.
func (s ServerConfig) Validate() error {
	switch {
	case s.MaxLimit < 1 || s.MaxLimit > MaxLimitCeiling:
		return fmt.Errorf("%w: max_limit %d must be between 1 and %d", ErrInvalidServerConfig, s.MaxLimit, MaxLimitCeiling)
	case s.MinPrefix < 0:
		return fmt.Errorf("%w: min_prefix %d must not be negative", ErrInvalidServerConfig, s.MinPrefix)
	case s.MaxPrefix < s.MinPrefix:
		return fmt.Errorf("%w: max_prefix %d is below min_prefix %d", ErrInvalidServerConfig, s.MaxPrefix, s.MinPrefix)
	}
	return nil
}

// sanitize resets each out of range server value to its default, then the
// whole section if the values still conflict.
func (s *ServerConfig) sanitize(source string) {
	defaults := DefaultConfig().Server
	if s.MaxLimit < 1 || s.MaxLimit > MaxLimitCeiling {
		log.Warnf("max_limit %d in %s is out of range, using %d", s.MaxLimit, source, defaults.MaxLimit)
		s.MaxLimit = defaults.MaxLimit
	}
	if s.MinPrefix < 0 {
		log.Warnf("min_prefix %d in %s is negative, using %d", s.MinPrefix, source, defaults.MinPrefix)
		s.MinPrefix = defaults.MinPrefix
	}
	if s.MaxPrefix < s.MinPrefix {
		log.Warnf("max_prefix %d in %s is below min_prefix %d, using %d", s.MaxPrefix, source, s.MinPrefix, defaults.MaxPrefix)
		s.MaxPrefix = defaults.MaxPrefix
	}
	if err := s.Validate(); err != nil {
		log.Warnf("%v in %s. Using default server section", err, source)
		*s = defaults
	}
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Backend:  "trie",
			SeedFile: "",
		},
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    1,
			MaxPrefix:    60,
			EnableFilter: true,
		},
		CLI: CliConfig{
			DefaultLimit:    24,
			DefaultMinLen:   1,
			DefaultMaxLen:   24,
			DefaultNoFilter: false,
		},
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. defaultPath, created if missing
// 3. Builtin defaults
// It returns the path the config was read from, or "" for builtin defaults.
func LoadConfigWithPriority(customConfigPath, defaultPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	if defaultPath == "" {
		log.Warn("No default config path. Using built-in defaults...")
		return DefaultConfig(), ""
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Server.sanitize(configPath)
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if engineSection, ok := utils.ExtractSection(tempConfig, "engine", "backend", "seed_file"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server",
		"max_limit", "min_prefix", "max_prefix", "enable_filter"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli",
		"default_limit", "default_min_len", "default_max_len", "default_no_filter"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.Server.sanitize(configPath)
	return config, nil
}

func extractEngineConfig(data utils.Section, engine *EngineConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		engine.Backend = val
	}
	if val, ok := utils.ExtractString(data, "seed_file"); ok {
		engine.SeedFile = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data utils.Section, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data utils.Section, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values that are set and saves to file.
// Values failing Validate are rejected and leave the config unchanged.
// An empty configPath only updates the in-memory values.
func (c *Config) Update(configPath string, maxLimit, minPrefix, maxPrefix *int, enableFilter *bool) error {
	server := c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	if err := server.Validate(); err != nil {
		return err
	}
	c.Server = server
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
