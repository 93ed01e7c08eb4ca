package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/masmgr/git-assist/internal/host"
)

// FileName is the configuration file looked up in the working directory
// and then in the home directory.
const FileName = ".git-assist.json"

// Config is the root configuration structure.
type Config struct {
	Bisect BisectConfig          `json:"bisect"`
	Hosts  map[string]HostConfig `json:"hosts"`
	Fetch  FetchConfig           `json:"fetch"`
}

// BisectConfig holds options of the bisect commands.
type BisectConfig struct {
	Tool    string `json:"tool"`    // Default: "git"
	Backend string `json:"backend"` // "go-git" (default) or "git"
}

// HostConfig maps a self-hosted or Enterprise host to a provider.
type HostConfig struct {
	Provider string `json:"provider"` // "github" or "gitlab"
	APIURL   string `json:"apiUrl"`
	TokenEnv string `json:"tokenEnv"` // environment variable holding the token
}

// FetchConfig holds provider API options.
type FetchConfig struct {
	PerPage int `json:"perPage"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Bisect: BisectConfig{
			Tool:    "git",
			Backend: "go-git",
		},
		Hosts: map[string]HostConfig{},
		Fetch: FetchConfig{
			PerPage: host.DefaultPerPage,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the host entries name known providers.
func (c *Config) Validate() error {
	_, err := c.Overrides()
	return err
}

// Overrides returns the host to provider table for host.KindFor.
func (c *Config) Overrides() (map[string]host.Kind, error) {
	out := make(map[string]host.Kind, len(c.Hosts))
	for name, h := range c.Hosts {
		kind, err := host.ParseKind(h.Provider)
		if err != nil {
			return nil, fmt.Errorf("hosts.%s: %w", name, err)
		}
		out[strings.ToLower(name)] = kind
	}
	return out, nil
}

// Host returns the entry for hostname, matched case-insensitively.
func (c *Config) Host(hostname string) (HostConfig, bool) {
	for name, h := range c.Hosts {
		if strings.EqualFold(name, hostname) {
			return h, true
		}
	}
	return HostConfig{}, false
}
