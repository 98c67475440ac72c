package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Http struct {
		Port         int           `yaml:"port"`
		Timeout      time.Duration `yaml:"timeout"`
		MaxBodyBytes int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Model struct {
		Type           string `yaml:"type"`
		Path           string `yaml:"path"`
		MetadataPath   string `yaml:"metadata_path"`
		RuntimeLibrary string `yaml:"runtime_library"`
		IntraOpThreads int    `yaml:"intra_op_threads"`
	} `yaml:"model"`
	Log  Log `yaml:"log"`
	I18n struct {
		Language  string `yaml:"language"`
		Negotiate bool   `yaml:"negotiate"`
	} `yaml:"i18n"`
	History struct {
		Backend string `yaml:"backend"`
		Size    int    `yaml:"size"`
		Path    string `yaml:"path"`
	} `yaml:"history"`
}

type Log struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var c Config
	c.Http.Port = 5000
	c.Http.Timeout = 30 * time.Second
	c.Http.MaxBodyBytes = 64 << 10
	c.Model.Type = "onnx"
	c.Model.Path = "./random_forest_model/model.onnx"
	c.Model.MetadataPath = "./random_forest_model/metadata.json"
	c.Log = Log{
		Level:      "info",
		Format:     "json",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
	c.I18n.Language = "vi"
	c.I18n.Negotiate = true
	c.History.Backend = "none"
	c.History.Size = 200
	c.History.Path = "./data/history.db"
	return &c
}

// Load reads a YAML config over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// 空文件等同于没有配置
	if err := yaml.NewDecoder(file).Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", ErrInvalid, c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return fmt.Errorf("%w: http.timeout must be positive", ErrInvalid)
	}
	if c.Http.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: http.max_body_bytes must be positive", ErrInvalid)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	switch c.I18n.Language {
	case "vi", "en":
	default:
		return fmt.Errorf("%w: i18n.language %q", ErrInvalid, c.I18n.Language)
	}
	switch c.History.Backend {
	case "none":
	case "memory":
		if c.History.Size <= 0 {
			return fmt.Errorf("%w: history.size must be positive", ErrInvalid)
		}
	case "sqlite":
		if c.History.Path == "" {
			return fmt.Errorf("%w: history.path is required for sqlite", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: history.backend %q", ErrInvalid, c.History.Backend)
	}
	return nil
}
