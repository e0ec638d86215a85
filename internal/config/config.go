// Package config loads the tool configuration from a YAML or JSON file.
// Everything has a working default; a config file only overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"minute/internal/vault"
)

// EnvConfigPath names the environment variable pointing at the config file.
const EnvConfigPath = "MINUTE_CONFIG"

// Transcriber configures the external transcription command.
type Transcriber struct {
	Command string `yaml:"command" json:"command"`
	Model   string `yaml:"model" json:"model"`
}

// Summarizer configures the summarization API endpoint.
type Summarizer struct {
	BaseURL    string `yaml:"base_url" json:"base_url"`
	APIKeyFile string `yaml:"api_key_file" json:"api_key_file"`
	Model      string `yaml:"model" json:"model"`
}

// Diarizer configures the optional external diarization command. An empty
// command disables diarization.
type Diarizer struct {
	Command string `yaml:"command" json:"command"`
}

// Config is the full tool configuration.
type Config struct {
	VaultRoot      string        `yaml:"vault_root" json:"vault_root"`
	Folders        vault.Folders `yaml:"folders" json:"folders"`
	SaveAudio      bool          `yaml:"save_audio" json:"save_audio"`
	SaveTranscript bool          `yaml:"save_transcript" json:"save_transcript"`
	Transcriber    Transcriber   `yaml:"transcriber" json:"transcriber"`
	Summarizer     Summarizer    `yaml:"summarizer" json:"summarizer"`
	Diarizer       Diarizer      `yaml:"diarizer" json:"diarizer"`
	ModelPaths     []string      `yaml:"model_paths" json:"model_paths"`
}

// Default returns the zero-config setup: vault in ~/Minute, whisper-cli,
// Anthropic API with the key in ~/.minute-api-key.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		VaultRoot:      filepath.Join(home, "Minute"),
		Folders:        vault.DefaultFolders(),
		SaveAudio:      true,
		SaveTranscript: true,
		Transcriber: Transcriber{
			Command: "whisper-cli",
			Model:   filepath.Join(home, ".minute", "models", "ggml-base.en.bin"),
		},
		Summarizer: Summarizer{
			BaseURL:    "https://api.anthropic.com",
			APIKeyFile: filepath.Join(home, ".minute-api-key"),
			Model:      "claude-haiku-4-5",
		},
	}
}

// LoadFromPath reads a config file (YAML or JSON). Format is detected by
// extension or, failing that, by the first non-whitespace character.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config bytes over the defaults. ext is a format hint
// (".yaml"/".yml"/".json"); empty means detect from content.
func Load(data []byte, ext string) (*Config, error) {
	cfg := Default()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if cfg.Folders == (vault.Folders{}) {
		cfg.Folders = vault.DefaultFolders()
	}
	return &cfg, nil
}

// Resolve loads the config named by --config, $MINUTE_CONFIG, or defaults.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	return LoadFromPath(path)
}
