// Package config provides configuration loading and validation for codeatlas.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort         = errors.New("invalid server port")
	ErrInvalidCloneTimeout = errors.New("clone timeout must be positive")
	ErrInvalidMaxFiles     = errors.New("limits max files must be positive")
	ErrInvalidMaxProjects  = errors.New("limits max projects must be positive")
	ErrInvalidMaxDocs      = errors.New("limits max documents per project must be positive")
	ErrInvalidMaxTextBytes = errors.New("limits max total text bytes must be positive")
	ErrInvalidMaxEdges     = errors.New("limits max edges must be positive")
	ErrEmptyGitBinary      = errors.New("workspace git binary must not be empty")
)

// Default configuration values.
const (
	defaultPort = 8080
	defaultHost = "0.0.0.0"
	maxPort     = 65535
)

// Config holds all configuration for codeatlas.
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// WorkspaceConfig governs stage 1 (clone and checkout).
type WorkspaceConfig struct {
	// ScratchRoot is the directory under which per-run checkouts are created.
	// Empty uses the OS temp directory.
	ScratchRoot string `mapstructure:"scratch_root"`
	// GitBinary is the name or path of the git executable shelled out to for
	// the shallow clone/fetch.
	GitBinary string `mapstructure:"git_binary"`
	// CloneTimeout bounds the clone/fetch step.
	CloneTimeout time.Duration `mapstructure:"clone_timeout"`
	// MaxFileSize is loaded and defaulted but not read by any stage; no
	// per-file size cap is enforced.
	MaxFileSize string `mapstructure:"max_file_size"`
}

// LimitsConfig governs the resource caps enforced across stages 2-4.
type LimitsConfig struct {
	// MaxFiles caps the number of .cs files triage counts before it gives up;
	// other files are not counted.
	MaxFiles int `mapstructure:"max_files"`
	// MaxProjects caps the number of accepted projects.
	MaxProjects int `mapstructure:"max_projects"`
	// MaxDocumentsPerProject caps documents loaded per project.
	MaxDocumentsPerProject int `mapstructure:"max_documents_per_project"`
	// MaxTotalTextBytes caps the sum of decoded document bytes across the run.
	MaxTotalTextBytes int64 `mapstructure:"max_total_text_bytes"`
	// MaxEdges caps the number of dependency edges the resolver will emit.
	MaxEdges int `mapstructure:"max_edges"`
}

// ServerConfig holds the optional HTTP listener (health/metrics) and MCP
// transport settings. The serve subcommand reads Enabled, Host and Port;
// ReadTimeout, WriteTimeout and MCPEnabled are not read (serve uses fixed
// HTTP timeouts and always runs the MCP server).
type ServerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MCPEnabled   bool          `mapstructure:"mcp_enabled"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/codeatlas")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix("CODEATLAS")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file.
	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Workspace defaults.
	viperCfg.SetDefault("workspace.scratch_root", "")
	viperCfg.SetDefault("workspace.git_binary", DefaultGitBinary)
	viperCfg.SetDefault("workspace.clone_timeout", DefaultCloneTimeout)
	viperCfg.SetDefault("workspace.max_file_size", DefaultMaxFileSize)

	// Limits defaults.
	viperCfg.SetDefault("limits.max_files", DefaultMaxFiles)
	viperCfg.SetDefault("limits.max_projects", DefaultMaxProjects)
	viperCfg.SetDefault("limits.max_documents_per_project", DefaultMaxDocumentsPerProject)
	viperCfg.SetDefault("limits.max_total_text_bytes", DefaultMaxTotalTextBytes)
	viperCfg.SetDefault("limits.max_edges", DefaultMaxEdges)

	// Server defaults.
	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.mcp_enabled", true)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stdout")
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	if cfg.Workspace.CloneTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCloneTimeout, cfg.Workspace.CloneTimeout)
	}

	if cfg.Workspace.GitBinary == "" {
		return ErrEmptyGitBinary
	}

	if cfg.Limits.MaxFiles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxFiles, cfg.Limits.MaxFiles)
	}

	if cfg.Limits.MaxProjects <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxProjects, cfg.Limits.MaxProjects)
	}

	if cfg.Limits.MaxDocumentsPerProject <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDocs, cfg.Limits.MaxDocumentsPerProject)
	}

	if cfg.Limits.MaxTotalTextBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTextBytes, cfg.Limits.MaxTotalTextBytes)
	}

	if cfg.Limits.MaxEdges <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxEdges, cfg.Limits.MaxEdges)
	}

	return nil
}
