package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"chatgpt-assistant/internal/llm"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user configuration directory under $HOME
	DirName = ".chatgpt-assistant"
	// FileName is the profile store inside the configuration directory
	FileName = "config.yaml"
)

// DefaultConfig is written on first run
const DefaultConfig = `profiles:
  default:
    messages: []
`

// ErrProfileNotFound is returned by Config.Profile for unknown names
var ErrProfileNotFound = errors.New("profile not found")

// Config represents the complete assistant configuration
type Config struct {
	// Model overrides the default chat model; ${VAR} references are expanded
	Model string `yaml:"model"`
	// APIBaseURL points at an OpenAI-compatible endpoint; ${VAR} references are expanded
	APIBaseURL string             `yaml:"api_base_url"`
	Profiles   map[string]Profile `yaml:"profiles"`
}

// Profile is a named seed transcript
type Profile struct {
	Messages []llm.Message `yaml:"messages"`
}

// Dir returns the default configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// EnsureDir creates the configuration directory if it does not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load reads and parses the YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.Model = ExpandEnv(cfg.Model)
	cfg.APIBaseURL = ExpandEnv(cfg.APIBaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrCreate loads dir/config.yaml, writing DefaultConfig first if the file is missing
func LoadOrCreate(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := EnsureDir(dir); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(DefaultConfig), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	return Load(path)
}

// Validate checks config correctness. Decoding rejects unknown roles, but a
// missing or null role never reaches the decoder, so every role is checked here.
func (c *Config) Validate() error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}

	for name, p := range c.Profiles {
		if name == "" {
			return fmt.Errorf("profile name cannot be empty")
		}
		for i, m := range p.Messages {
			if _, err := llm.ParseRole(string(m.Role)); err != nil {
				return fmt.Errorf("profile %s: message %d: %w", name, i, err)
			}
		}
	}

	return nil
}

// Profile looks up a profile by name
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// ProfileNames returns all profile names, sorted
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandEnv replaces ${VAR} and $VAR with environment variables.
// Unset variables expand to the empty string.
func ExpandEnv(s string) string {
	return os.Expand(s, os.Getenv)
}
