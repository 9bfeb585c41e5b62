// Package config loads the automata CLI and server settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "automata.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds every setting the commands read.
type Config struct {
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	Store         string `yaml:"store" json:"store"`
	Dir           string `yaml:"dir" json:"dir"`
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"redis_password"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix" json:"redis_prefix"`
	// RedisTTL expires stored automata; zero keeps them forever. YAML takes
	// a duration string such as "24h", JSON takes nanoseconds.
	RedisTTL time.Duration `yaml:"redis_ttl" json:"redis_ttl"`

	// Cache keeps parsed automata in memory between loads. Writes made by
	// other processes are not observed while an entry is cached.
	Cache bool `yaml:"cache" json:"cache"`

	Port        int `yaml:"port" json:"port"`
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Store:       StoreFile,
		Dir:         filepath.Join(".automata", "store"),
		RedisAddr:   "localhost:6379",
		RedisPrefix: "automata:dfa:",
		Port:        8080,
	}
}

// Load reads a YAML or JSON config file over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("invalid redis ttl %s", c.RedisTTL)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency %d", c.Concurrency)
	}
	return nil
}
