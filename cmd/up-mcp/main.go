package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/shaunakg/up-mcp/internal/common"
	"github.com/shaunakg/up-mcp/internal/upbank"
)

// UpConfig holds Up API connection settings. The token is never read from
// the config file — only from UP_API_TOKEN or a per-request bearer.
type UpConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *UpConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// Config holds all up-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Up      UpConfig             `toml:"up"`
	Logging common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Up-MCP",
			Port: "8000",
		},
		Up: UpConfig{
			BaseURL: upbank.DefaultBaseURL,
			Timeout: "30s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/up-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Apply environment overrides
	if base := os.Getenv("UP_API_BASE_URL"); base != "" {
		cfg.Up.BaseURL = base
	}
	if timeout := os.Getenv("UP_API_TIMEOUT"); timeout != "" {
		cfg.Up.Timeout = timeout
	}
	if port := os.Getenv("UP_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("UP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "up-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	// The bearer token is required before serving anything.
	token := os.Getenv("UP_API_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "UP_API_TOKEN environment variable is required")
		os.Exit(1)
	}

	client, err := upbank.NewClient(upbank.Config{
		Token:   token,
		BaseURL: cfg.Up.BaseURL,
		Timeout: cfg.Up.GetTimeout(),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client setup error: %v\n", err)
		os.Exit(1)
	}

	b := &bridge{client: client, logger: logger}

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register all MCP tools
	registerTools(mcpServer, b)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — stateless, one invocation per request.
	// A bearer on the inbound request overrides the configured token.
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(bearerFromRequest),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
