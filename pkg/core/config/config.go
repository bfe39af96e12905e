// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     config
// Description: TOML/YAML configuration for the CLI, server and store
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	mdwlog "github.com/msto63/dashscript/foundation/core/log"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "DASHSCRIPT_CONFIG"

// Config holds the complete application configuration
type Config struct {
	Log     LogConfig     `toml:"log" yaml:"log"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
	Console ConsoleConfig `toml:"console" yaml:"console"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ServerConfig holds the websocket and gRPC endpoint settings
type ServerConfig struct {
	HTTPAddr        string   `toml:"http_addr" yaml:"http_addr"`
	GRPCAddr        string   `toml:"grpc_addr" yaml:"grpc_addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxScriptBytes  int64    `toml:"max_script_bytes" yaml:"max_script_bytes"`
	// CompileCache is the number of compiled scripts kept in memory
	CompileCache int `toml:"compile_cache" yaml:"compile_cache"`
}

// StoreConfig holds revision store settings
type StoreConfig struct {
	Path         string `toml:"path" yaml:"path"`
	HistoryLimit int    `toml:"history_limit" yaml:"history_limit"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// ConsoleConfig holds TUI settings
type ConsoleConfig struct {
	Theme string `toml:"theme" yaml:"theme"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeConfig).WithOperation("config.Load")
		}
		return nil, mdwerror.Wrap(err, "read config").
			WithCode(mdwerror.CodeConfig).WithOperation("config.Load").WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfig).WithOperation("config.Load").WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by DASHSCRIPT_CONFIG, else the first
// default location that exists, else the defaults
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}
	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{
		"./configs/dashscript.toml",
		"./dashscript.toml",
		"./dashscript.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config/dashscript/config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Server
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8790"
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = "127.0.0.1:8791"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxScriptBytes == 0 {
		c.Server.MaxScriptBytes = 1 << 20
	}
	if c.Server.CompileCache == 0 {
		c.Server.CompileCache = 128
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = "./data/dashscript.db"
	}
	if c.Store.HistoryLimit == 0 {
		c.Store.HistoryLimit = 50
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}

	// Console
	if c.Console.Theme == "" {
		c.Console.Theme = "dark"
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

func (c *Config) validate() error {
	invalid := func(key string, value any, msg string) error {
		return mdwerror.Newf("invalid %s: %s", key, msg).
			WithCode(mdwerror.CodeConfig).
			WithOperation("config.validate").
			WithDetail("key", key).
			WithDetail("value", value)
	}
	if _, err := mdwlog.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.Log.Format); err != nil {
		return invalid("log.format", c.Log.Format, err.Error())
	}
	if c.Server.MaxScriptBytes < 0 {
		return invalid("server.max_script_bytes", c.Server.MaxScriptBytes, "must not be negative")
	}
	if c.Server.CompileCache < 0 {
		return invalid("server.compile_cache", c.Server.CompileCache, "must not be negative")
	}
	if c.Store.HistoryLimit < 0 {
		return invalid("store.history_limit", c.Store.HistoryLimit, "must not be negative")
	}
	switch c.Console.Theme {
	case "dark", "light":
	default:
		return invalid("console.theme", c.Console.Theme, "want dark or light")
	}
	return nil
}
