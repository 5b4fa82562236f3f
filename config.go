package pixfx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the file form of a pipeline run:
//
//	gpu = false
//	log_level = "debug"
//
//	[[filter]]
//	type = "Brightness"
//	brightness = 0.2
//
//	[[filter]]
//	type = "Blur"
//	blur = 0.3
type Config struct {
	GPU      bool         `toml:"gpu"`
	LogLevel string       `toml:"log_level"`
	Filters  []Descriptor `toml:"filter"`
}

// DecodeConfig parses TOML config data.
func DecodeConfig(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// Pipeline parses the configured filters.
func (c *Config) Pipeline() (Pipeline, error) {
	return ParsePipeline(c.Filters)
}

// Level maps LogLevel to a slog level. Empty and unknown values are Info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Encode writes c as TOML.
func (c *Config) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}

// LoadPipelineFile reads a pipeline from a .json descriptor array or a .toml
// config file.
func LoadPipelineFile(path string) (Pipeline, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load pipeline: %w", err)
		}
		return ParsePipelineJSON(data)
	case ".toml":
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return cfg.Pipeline()
	}
	return nil, fmt.Errorf("load pipeline %s: unsupported extension", path)
}
