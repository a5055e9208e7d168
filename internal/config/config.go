// Package config loads service configuration from a YAML file, a .env file
// and GOURMET_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gourmet/internal/database"
	"gourmet/internal/events"
	"gourmet/internal/models/providers"
	"gourmet/internal/order"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Chat modes
const (
	ChatModeLLM  = "llm"
	ChatModeHTTP = "http"
	ChatModeNone = "none"
)

// Config represents the application configuration
type Config struct {
	Env      string           `yaml:"env"`
	Server   ServerConfig     `yaml:"server"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Log      LogConfig        `yaml:"log"`
	Database database.Config  `yaml:"database"`
	LLM      providers.Config `yaml:"llm"`
	Chat     ChatConfig       `yaml:"chat"`
	Kafka    KafkaConfig      `yaml:"kafka"`
	Order    OrderConfig      `yaml:"order"`
	Auth     AuthConfig       `yaml:"auth"`
	Menu     MenuConfig       `yaml:"menu"`
}

// ServerConfig configures the API server
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MetricsConfig configures the Prometheus metrics server
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// ChatConfig selects how chat replies are produced
type ChatConfig struct {
	Mode     string        `yaml:"mode"`
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// KafkaConfig configures order event publishing
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Publisher returns the events package view of the Kafka settings
func (k KafkaConfig) Publisher() events.KafkaConfig {
	return events.KafkaConfig{Brokers: k.Brokers, Topic: k.Topic}
}

// OrderConfig configures automatic order progression
type OrderConfig struct {
	AutoProgress bool         `yaml:"auto_progress"`
	Steps        []order.Step `yaml:"steps"`
}

// AuthConfig configures session tokens and expiry
type AuthConfig struct {
	Secret         string        `yaml:"secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

// MenuConfig points at an alternative menu file; empty uses the built-in menu
type MenuConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Log: LogConfig{Level: "info"},
		Database: database.Config{
			Driver: "sqlite3",
			DSN:    ":memory:",
		},
		LLM: providers.Config{
			Provider:    providers.OpenAI,
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Chat: ChatConfig{
			Mode:    ChatModeLLM,
			Timeout: 30 * time.Second,
		},
		Kafka: KafkaConfig{Topic: "gourmet.orders"},
		Order: OrderConfig{
			AutoProgress: true,
			Steps:        append([]order.Step(nil), order.DefaultSteps...),
		},
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			SessionIdleTTL: 2 * time.Hour,
			SweepInterval:  time.Minute,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then .env, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("GOURMET_ENV", &c.Env)
	str("GOURMET_LOG_LEVEL", &c.Log.Level)
	if err := num("GOURMET_PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := num("GOURMET_METRICS_PORT", &c.Metrics.Port); err != nil {
		return err
	}

	str("GOURMET_DATABASE_DRIVER", &c.Database.Driver)
	str("GOURMET_DATABASE_DSN", &c.Database.DSN)

	str("GOURMET_LLM_PROVIDER", &c.LLM.Provider)
	str("GOURMET_LLM_MODEL", &c.LLM.Model)
	str("OPENAI_API_KEY", &c.LLM.APIKey)
	if c.LLM.Provider == providers.GitHubModels {
		str("GITHUB_TOKEN", &c.LLM.APIKey)
	}
	if c.LLM.Provider == providers.AzureOpenAI {
		str("AZURE_OPENAI_ENDPOINT", &c.LLM.Endpoint)
		str("AZURE_OPENAI_API_KEY", &c.LLM.APIKey)
		str("AZURE_OPENAI_DEPLOYMENT_NAME", &c.LLM.Deployment)
	}

	str("GOURMET_CHAT_MODE", &c.Chat.Mode)
	str("GOURMET_CHAT_ENDPOINT", &c.Chat.Endpoint)
	str("GOURMET_CHAT_API_KEY", &c.Chat.APIKey)

	if v, ok := lookup("GOURMET_KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	str("GOURMET_KAFKA_TOPIC", &c.Kafka.Topic)

	str("GOURMET_AUTH_SECRET", &c.Auth.Secret)
	str("GOURMET_MENU_PATH", &c.Menu.Path)
	return nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			errs = append(errs, fmt.Errorf("metrics.port %d out of range", c.Metrics.Port))
		}
		if c.Metrics.Port == c.Server.Port {
			errs = append(errs, fmt.Errorf("metrics.port must differ from server.port"))
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be sqlite3 or postgres", c.Database.Driver))
	}
	switch c.Chat.Mode {
	case ChatModeLLM, ChatModeNone:
	case ChatModeHTTP:
		if c.Chat.Endpoint == "" {
			errs = append(errs, fmt.Errorf("chat.endpoint is required in http mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("chat.mode %q must be llm, http or none", c.Chat.Mode))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("kafka.brokers is required when kafka is enabled"))
	}
	if c.Auth.Secret == "" {
		errs = append(errs, fmt.Errorf("auth.secret is required"))
	}
	if err := validateSteps(c.Order.Steps); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func validateSteps(steps []order.Step) error {
	prev := 0
	for i, step := range steps {
		if !step.Status.Valid() {
			return fmt.Errorf("order.steps[%d]: unknown status %q", i, step.Status)
		}
		if step.After < 0 {
			return fmt.Errorf("order.steps[%d]: negative delay", i)
		}
		if step.Status.Rank() <= prev {
			return fmt.Errorf("order.steps[%d]: %q does not move the order forward", i, step.Status)
		}
		prev = step.Status.Rank()
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
