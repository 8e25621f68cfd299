package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the bootstrap config.yaml file.
// Seed data that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Categories []string        `yaml:"categories"`
	Bootstrap  BootstrapConfig `yaml:"bootstrap"`
}

// BootstrapConfig lists accounts promoted at startup. Promotion never demotes.
type BootstrapConfig struct {
	Admins     []string `yaml:"admins"`
	Moderators []string `yaml:"moderators"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Categories = cleanList(cfg.Categories, false)
	cfg.Bootstrap.Admins = cleanList(cfg.Bootstrap.Admins, true)
	cfg.Bootstrap.Moderators = cleanList(cfg.Bootstrap.Moderators, true)

	return &cfg, nil
}

// CategoryNames returns the categories to seed.
func (c *YAMLConfig) CategoryNames() []string {
	if c == nil {
		return nil
	}
	return c.Categories
}

// AdminEmails returns the emails to promote to admin.
func (c *YAMLConfig) AdminEmails() []string {
	if c == nil {
		return nil
	}
	return c.Bootstrap.Admins
}

// ModeratorEmails returns the emails to promote to moderator.
func (c *YAMLConfig) ModeratorEmails() []string {
	if c == nil {
		return nil
	}
	return c.Bootstrap.Moderators
}

// cleanList trims entries, drops blanks and duplicates.
func cleanList(items []string, lower bool) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(item)
		}
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
