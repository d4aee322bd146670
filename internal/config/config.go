package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Share     ShareConfig     `yaml:"share"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type ShareConfig struct {
	// TokenTTL bounds the lifetime of share links; zero means they never expire.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type MCPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DefaultUser string `yaml:"default_user"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "waypoint.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WAYPOINT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WAYPOINT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WAYPOINT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WAYPOINT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("WAYPOINT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("WAYPOINT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("WAYPOINT_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if secret := os.Getenv("WAYPOINT_AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}
	if err := durationEnv("WAYPOINT_AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL); err != nil {
		return Config{}, err
	}
	if err := durationEnv("WAYPOINT_SHARE_TOKEN_TTL", &cfg.Share.TokenTTL); err != nil {
		return Config{}, err
	}
	if enabled := os.Getenv("WAYPOINT_MCP_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WAYPOINT_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = v
	}
	if user := os.Getenv("WAYPOINT_MCP_DEFAULT_USER"); user != "" {
		cfg.MCP.DefaultUser = user
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot run.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport.Mode {
	case TransportHTTP:
		if c.Auth.Secret == "" {
			errs = append(errs, errors.New("auth secret is required in http mode (WAYPOINT_AUTH_SECRET)"))
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
		}
	case TransportStdio:
		if c.MCP.DefaultUser == "" {
			errs = append(errs, errors.New("mcp default user is required in stdio mode (WAYPOINT_MCP_DEFAULT_USER)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport mode %q", c.Transport.Mode))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	if c.Share.TokenTTL < 0 {
		errs = append(errs, errors.New("share token ttl must not be negative"))
	}

	return errors.Join(errs...)
}

func durationEnv(key string, dst *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
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
