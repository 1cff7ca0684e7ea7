package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Server modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	DB      DBConfig     `yaml:"db"`
	Log     LogConfig    `yaml:"log"`
	Release string       `yaml:"release"`
}

type ServerConfig struct {
	Mode string `yaml:"mode"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the slog output. Path names an optional log file;
// in stdio mode the protocol owns stdout, so file logging is the only
// way to keep a persistent trace.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Addr returns the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment wins over the file, the file over defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Mode: ModeStdio,
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "coprojet.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Release: "0.3.0",
	}

	if path := os.Getenv("COPROJET_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("COPROJET_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if host := os.Getenv("COPROJET_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("COPROJET_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COPROJET_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("COPROJET_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("COPROJET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("COPROJET_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if release := os.Getenv("COPROJET_RELEASE"); release != "" {
		cfg.Release = release
	}

	if cfg.Server.Mode != ModeStdio && cfg.Server.Mode != ModeHTTP {
		return Config{}, fmt.Errorf("invalid server mode %q: use %s or %s", cfg.Server.Mode, ModeStdio, ModeHTTP)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
