package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/pulse/internal/constants"
	"github.com/spiffcs/pulse/internal/duration"
)

// Environment variables that override file configuration.
const (
	EnvOrg       = "PULSE_ORG"
	EnvUser      = "PULSE_USER"
	EnvStaleDays = "PULSE_STALE_DAYS"
	EnvToken     = "GITHUB_TOKEN"
)

// Config represents the application configuration
type Config struct {
	Org           string   `yaml:"org,omitempty"`
	User          string   `yaml:"user,omitempty"`
	KnownBots     []string `yaml:"known_bots,omitempty"`
	StaleDays     int      `yaml:"stale_days,omitempty"`
	Transport     string   `yaml:"transport,omitempty"`
	Timeout       string   `yaml:"timeout,omitempty"`
	DefaultFormat string   `yaml:"default_format,omitempty"`
	OutputPath    string   `yaml:"output_path,omitempty"`
	ExcludeRepos  []string `yaml:"exclude_repos,omitempty"`
}

// DefaultKnownBots returns the bot accounts recognized when none are configured.
func DefaultKnownBots() []string {
	return []string{
		"dependabot[bot]",
		"renovate[bot]",
		"github-actions[bot]",
	}
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".pulse"
	}
	return filepath.Join(configDir, "pulse")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".pulse.yaml"
}

// ConfigFileExists returns true if the config file exists on disk
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .pulse.yaml config on top (local values take precedence), and
// finally applies environment overrides.
func Load() (*Config, error) {
	return load(ConfigPath(), LocalConfigPath())
}

func load(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(globalPath); err == nil {
		global, err := readFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("global config: %w", err)
		}
		cfg = global
	}

	if _, err := os.Stat(localPath); err == nil {
		local, err := readFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("local config: %w", err)
		}
		cfg = mergeConfig(cfg, local)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnv overrides file values with PULSE_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvOrg); v != "" {
		c.Org = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		c.User = v
	}
	if v := os.Getenv(EnvStaleDays); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", EnvStaleDays, v)
		}
		c.StaleDays = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.StaleDays == 0 {
		c.StaleDays = constants.DefaultStaleDays
	}
	if len(c.KnownBots) == 0 {
		c.KnownBots = DefaultKnownBots()
	}
	if c.Transport == "" {
		c.Transport = constants.TransportAuto
	}
	if c.Timeout == "" {
		c.Timeout = constants.DefaultCallTimeout.String()
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = "digest"
	}
	if c.OutputPath == "" {
		c.OutputPath = constants.DefaultOutputPath
	}
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.Org != "" {
		result.Org = local.Org
	}
	if local.User != "" {
		result.User = local.User
	}
	if local.StaleDays != 0 {
		result.StaleDays = local.StaleDays
	}
	if local.Transport != "" {
		result.Transport = local.Transport
	}
	if local.Timeout != "" {
		result.Timeout = local.Timeout
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.OutputPath != "" {
		result.OutputPath = local.OutputPath
	}

	// Lists are replaced, not appended
	if len(local.KnownBots) > 0 {
		result.KnownBots = local.KnownBots
	}
	if len(local.ExcludeRepos) > 0 {
		result.ExcludeRepos = local.ExcludeRepos
	}

	return &result
}

// CallTimeout returns the per-call timeout, falling back to the default
// when the configured value cannot be parsed.
func (c *Config) CallTimeout() time.Duration {
	d, err := duration.Parse(c.Timeout)
	if err != nil || d == 0 {
		return constants.DefaultCallTimeout
	}
	return d
}

// Validate reports configuration values that would make a scan meaningless.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Org) == "" {
		return fmt.Errorf("organization not configured: pass --org, set %s, or add org to %s", EnvOrg, ConfigPath())
	}
	if c.StaleDays < 1 {
		return fmt.Errorf("invalid stale_days %d: must be a positive integer", c.StaleDays)
	}
	return c.ValidateAccess()
}

// ValidateAccess checks the transport and timeout settings.
func (c *Config) ValidateAccess() error {
	switch c.Transport {
	case constants.TransportAuto, constants.TransportGH, constants.TransportAPI:
	default:
		return fmt.Errorf("invalid transport %q (must be auto, gh or api)", c.Transport)
	}
	if _, err := duration.Parse(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

// LoadFile reads a single config file as written, without merging, env
// overrides or defaults. A missing file yields an empty Config.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return readFile(path)
}

// Set assigns a single key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "token":
		return fmt.Errorf("tokens cannot be stored in config files for security reasons. Set the %s environment variable instead", EnvToken)
	case "format":
		c.DefaultFormat = value
	case "org":
		c.Org = value
	case "user":
		c.User = value
	case "stale_days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid stale_days: %s (must be a positive integer)", value)
		}
		c.StaleDays = n
	case "transport":
		switch value {
		case constants.TransportAuto, constants.TransportGH, constants.TransportAPI:
		default:
			return fmt.Errorf("invalid transport %q (must be auto, gh or api)", value)
		}
		c.Transport = value
	case "timeout":
		if _, err := duration.Parse(value); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Save saves the configuration to the global config file
func (c *Config) Save() error {
	return c.SaveAs(ConfigPath())
}

// SaveAs saves the configuration to path
func (c *Config) SaveAs(path string) error {
	content, err := c.ToYAML()
	if err != nil {
		return err
	}
	return SaveTo(path, content)
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Tokens are only read from the environment, never from config files.
func (c *Config) GetGitHubToken() string {
	return os.Getenv(EnvToken)
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	cfg := &Config{ExcludeRepos: []string{}}
	cfg.applyDefaults()
	return cfg
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# Pulse configuration file
# See: pulse config defaults  (for all available options)

# Organization to scan (or set PULSE_ORG)
# org: my-org

# Your GitHub handle, used to find your own PRs (or set PULSE_USER)
# user: octocat

# Days without activity before an item is stale
stale_days: 3

# Output format: digest, table or json
default_format: digest

# Accounts whose PRs are tracked as bot PRs (optional)
# known_bots:
#   - dependabot[bot]
#   - renovate[bot]

# Skip repositories entirely (optional)
# exclude_repos:
#   - archived-repo
#   - my-org/sandbox
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
