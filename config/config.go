// Package config loads stallama settings from config.yaml with defaults
// for anything absent and environment overrides on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration shared by the TUI and the server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Model   ModelConfig   `yaml:"model"`
	Prompts PromptsConfig `yaml:"prompts"`
	UI      UIConfig      `yaml:"ui"`
}

// ServerConfig configures the stallama server and how the TUI reaches it.
type ServerConfig struct {
	// Addr is the listen address of the server binary.
	Addr string `yaml:"addr"`
	// URL is the base URL the TUI talks to.
	URL string `yaml:"url"`
}

// ModelConfig configures the Ollama backend.
type ModelConfig struct {
	Name        string  `yaml:"name"`
	Host        string  `yaml:"host"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// PromptsConfig carries prompt templates.
type PromptsConfig struct {
	SystemMessage string `yaml:"system_message"`
}

// UIConfig carries TUI preferences.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":5000",
			URL:  "http://localhost:5000",
		},
		Model: ModelConfig{
			Name:        "llama3.2",
			Host:        "http://127.0.0.1:11434",
			Temperature: 0.7,
			TopP:        0.9,
			MaxTokens:   2048,
		},
		// UI.Theme is left empty so the TUI can auto-detect the
		// terminal background.
	}
}

// Load reads path, falling back to Defaults when the file does not exist.
// A file that exists but cannot be parsed is an error; silently masking a
// broken config hides real mistakes.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets the environment override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("STALLAMA_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("STALLAMA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STALLAMA_OLLAMA_HOST"); v != "" {
		cfg.Model.Host = v
	}
	if v := os.Getenv("STALLAMA_MODEL"); v != "" {
		cfg.Model.Name = v
	}
}
