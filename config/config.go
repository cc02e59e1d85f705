// Package config — .autopo.yaml project configuration.
//
// The file is optional. When present at the project root it supplies
// defaults that command-line flags override: extra locale search paths,
// the source language, and backend settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the project root.
const FileName = ".autopo.yaml"

// Config is the top-level .autopo.yaml structure.
type Config struct {
	// LocalePaths are additional base locale directories to search, relative
	// to the project root unless absolute.
	LocalePaths []string `yaml:"locale_paths,omitempty"`
	// SourceLang is the language catalogs are authored in (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Exclude lists locale codes to always skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// Provider selects the default translation backend: google, openai.
	Provider string `yaml:"provider,omitempty"`
	// Model is the default model for OpenAI-compatible backends.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the backend endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
	// ChunkSize is how many strings to send per backend request.
	ChunkSize int `yaml:"chunk_size,omitempty"`
}

// Load reads .autopo.yaml from rootDir. A missing file yields an empty
// config with defaults applied, not an error.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults(rootDir)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults(rootDir)
	return &cfg, nil
}

func (c *Config) applyDefaults(rootDir string) {
	if c.SourceLang == "" {
		c.SourceLang = "en"
	}
	for i, p := range c.LocalePaths {
		if !filepath.IsAbs(p) {
			c.LocalePaths[i] = filepath.Join(rootDir, p)
		}
	}
}
