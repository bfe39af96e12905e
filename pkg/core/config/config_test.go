package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "150ms", 150 * time.Millisecond, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"log.level", cfg.Log.Level, "info"},
		{"log.format", cfg.Log.Format, "text"},
		{"server.http_addr", cfg.Server.HTTPAddr, "127.0.0.1:8790"},
		{"server.grpc_addr", cfg.Server.GRPCAddr, "127.0.0.1:8791"},
		{"server.read_timeout", cfg.Server.ReadTimeout.Duration, 30 * time.Second},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout.Duration, 10 * time.Second},
		{"server.max_script_bytes", cfg.Server.MaxScriptBytes, int64(1 << 20)},
		{"server.compile_cache", cfg.Server.CompileCache, 128},
		{"store.path", cfg.Store.Path, "./data/dashscript.db"},
		{"store.history_limit", cfg.Store.HistoryLimit, 50},
		{"watch.debounce", cfg.Watch.Debounce.Duration, 200 * time.Millisecond},
		{"console.theme", cfg.Console.Theme, "dark"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeConfig) {
		t.Errorf("Load() error code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeConfig)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "dashscript.toml", `
[log]
level = "debug"
format = "json"

[server]
http_addr = ":9000"
read_timeout = "5s"

[store]
path = "$DASHSCRIPT_TEST_DIR/docs.db"
`)
	t.Setenv("DASHSCRIPT_TEST_DIR", "/tmp/ds")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.HTTPAddr != ":9000" {
		t.Errorf("Server.HTTPAddr = %v, want :9000", cfg.Server.HTTPAddr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Store.Path != "/tmp/ds/docs.db" {
		t.Errorf("Store.Path = %v, want /tmp/ds/docs.db", cfg.Store.Path)
	}
	if cfg.Server.GRPCAddr != "127.0.0.1:8791" {
		t.Errorf("Server.GRPCAddr = %v, want default", cfg.Server.GRPCAddr)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "dashscript.yaml", `
watch:
  debounce: 1s
console:
  theme: light
store:
  history_limit: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce.Duration)
	}
	if cfg.Console.Theme != "light" {
		t.Errorf("Console.Theme = %v, want light", cfg.Console.Theme)
	}
	if cfg.Store.HistoryLimit != 7 {
		t.Errorf("Store.HistoryLimit = %v, want 7", cfg.Store.HistoryLimit)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		key     string
	}{
		{"bad level", "a.toml", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad format", "b.toml", "[log]\nformat = \"xml\"\n", "log.format"},
		{"bad theme", "c.yaml", "console:\n  theme: neon\n", "console.theme"},
		{"negative limit", "d.toml", "[store]\nhistory_limit = -1\n", "store.history_limit"},
		{"broken toml", "e.toml", "[log\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !mdwerror.HasCode(err, mdwerror.CodeConfig) {
				t.Errorf("code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeConfig)
			}
			if tt.key == "" {
				return
			}
			var e *mdwerror.Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *mdwerror.Error", err)
			}
			if got := e.Details()["key"]; got != tt.key {
				t.Errorf("detail key = %v, want %v", got, tt.key)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "env.toml", "[console]\ntheme = \"light\"\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Console.Theme != "light" {
		t.Errorf("Console.Theme = %v, want light", cfg.Console.Theme)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.HTTPAddr != Default().Server.HTTPAddr {
		t.Errorf("LoadFromEnv() without a file should return defaults, got %+v", cfg.Server)
	}
}
