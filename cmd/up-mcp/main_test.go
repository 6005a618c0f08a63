package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaunakg/up-mcp/internal/upbank"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig("")
	if cfg.Server.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Server.Port)
	}
	if cfg.Up.BaseURL != upbank.DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.Up.BaseURL)
	}
	if cfg.Up.GetTimeout() != 30*time.Second {
		t.Errorf("Expected 30s default timeout, got %v", cfg.Up.GetTimeout())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg := loadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if cfg.Server.Name != "Up-MCP" {
		t.Errorf("Expected default server name, got %s", cfg.Server.Name)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "up-mcp.toml")
	content := `
[server]
port = "9000"

[up]
base_url = "https://staging.example.com/api/v1"
timeout = "10s"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg := loadConfig(path)
	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Up.BaseURL != "https://staging.example.com/api/v1" {
		t.Errorf("Unexpected base URL: %s", cfg.Up.BaseURL)
	}
	if cfg.Up.GetTimeout() != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.Up.GetTimeout())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("UP_MCP_PORT", "4444")
	t.Setenv("UP_API_BASE_URL", "http://localhost:9999/api/v1")
	t.Setenv("UP_API_TIMEOUT", "5s")
	t.Setenv("UP_LOG_LEVEL", "warn")

	cfg := loadConfig("")
	if cfg.Server.Port != "4444" {
		t.Errorf("Expected UP_MCP_PORT override, got %s", cfg.Server.Port)
	}
	if cfg.Up.BaseURL != "http://localhost:9999/api/v1" {
		t.Errorf("Expected UP_API_BASE_URL override, got %s", cfg.Up.BaseURL)
	}
	if cfg.Up.GetTimeout() != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Up.GetTimeout())
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected warn level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_PortEnvFallback(t *testing.T) {
	t.Setenv("PORT", "3000")
	cfg := loadConfig("")
	if cfg.Server.Port != "3000" {
		t.Errorf("Expected PORT fallback override, got %s", cfg.Server.Port)
	}
}

func TestUpConfig_GetTimeout_InvalidFallsBack(t *testing.T) {
	c := UpConfig{Timeout: "not-a-duration"}
	if c.GetTimeout() != 30*time.Second {
		t.Errorf("Expected 30s fallback, got %v", c.GetTimeout())
	}
}
