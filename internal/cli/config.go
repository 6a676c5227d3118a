package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when --config is not given.
const DefaultConfigPath = "stm.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the project configuration file, stm.yaml.
type Config struct {
	// Model is the model file used by the editing commands.
	Model string      `yaml:"model" json:"model"`
	Store StoreConfig `yaml:"store" json:"store"`
	HTTP  HTTPConfig  `yaml:"http" json:"http"`
	MCP   MCPConfig   `yaml:"mcp" json:"mcp"`
	Log   LogConfig   `yaml:"log" json:"log"`
}

// StoreConfig selects where the services keep models.
type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Dir     string      `yaml:"dir" json:"dir"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
	// EncryptionKey is a base64 AES-256 key. When set, models are stored
	// sealed. STM_ENCRYPTION_KEY overrides it.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// VolatileInputs are patterns of input names stored at their default.
	VolatileInputs []string `yaml:"volatile_inputs" json:"volatile_inputs"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// HTTPConfig configures `stm serve`.
type HTTPConfig struct {
	Port string `yaml:"port" json:"port"`
}

// MCPConfig configures `stm mcp`.
type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
}

// LogConfig sets the log level of the CLI.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Model: "model.yaml",
		Store: StoreConfig{Backend: BackendMemory},
		HTTP:  HTTPConfig{Port: "8080"},
		MCP:   MCPConfig{Transport: "stdio", Port: 8081},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig reads a configuration file (YAML or JSON) over the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
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
	return cfg, cfg.validate()
}

// EncryptionKeyEnv overrides store.encryption_key.
const EncryptionKeyEnv = "STM_ENCRYPTION_KEY"

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (memory, file, redis)", c.Store.Backend)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("unknown mcp transport %q (stdio, sse)", c.MCP.Transport)
	}
	return nil
}
