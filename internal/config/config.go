package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Model     ModelConfig     `mapstructure:"model"`
	Flows     FlowsConfig     `mapstructure:"flows"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Session   SessionConfig   `mapstructure:"session"`
	PromptLog PromptLogConfig `mapstructure:"prompt_log"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"` // MB, gesture frames are inline base64
}

// LogConfig logging configuration
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// ModelConfig hosted model configuration
type ModelConfig struct {
	Provider     string        `mapstructure:"provider"` // gemini, openai
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Temperature  float32       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxToolTurns int           `mapstructure:"max_tool_turns"`
}

// FlowsConfig default policies applied by the flows; reloaded on config change
type FlowsConfig struct {
	FallbackOnError             bool          `mapstructure:"fallback_on_error"`
	DefaultLanguage             string        `mapstructure:"default_language"`
	DistressedEmotionalState    string        `mapstructure:"distressed_emotional_state"`
	NonDistressedEmotionalState string        `mapstructure:"non_distressed_emotional_state"`
	ContextWindow               int           `mapstructure:"context_window"`
	UnclearSentinel             string        `mapstructure:"unclear_sentinel"`
	PromptLogGrace              time.Duration `mapstructure:"prompt_log_grace"`
}

// ChatConfig peer chat relay configuration
type ChatConfig struct {
	Backend     string      `mapstructure:"backend"` // memory, redis
	MaxMessages int         `mapstructure:"max_messages"`
	Redis       RedisConfig `mapstructure:"redis"`
}

// RedisConfig redis connection and key layout
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
	Channel  string `mapstructure:"channel"`
}

// SessionConfig sign language session store configuration
type SessionConfig struct {
	Backend  string        `mapstructure:"backend"` // memory, redis
	TTL      time.Duration `mapstructure:"ttl"`
	MaxTurns int           `mapstructure:"max_turns"`
	Prefix   string        `mapstructure:"prefix"`
}

// PromptLogConfig legal guidance prompt log database
type PromptLogConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql, sqlite, empty disables logging
	DSN             string        `mapstructure:"dsn"`    // sqlite file path or a full mysql DSN
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether the prompt log has a database configured
func (p PromptLogConfig) Enabled() bool {
	return p.Driver != ""
}

// Load reads the config file, applies SAHAAYA_* environment overrides and validates the result
func Load(configPath string) (*Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadWatched behaves like Load and keeps watching the file; every valid
// change of the flows section is pushed into the returned PolicyStore.
func LoadWatched(configPath string) (*Config, *PolicyStore, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}

	store := NewPolicyStore(cfg.Flows)
	store.watch(v)
	return cfg, store, nil
}

func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// SAHAAYA_MODEL_API_KEY -> model.api_key
	v.SetEnvPrefix("SAHAAYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Note: Don't log here, logger will be initialized after config is loaded
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_request_body_size", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.model", "gemini-2.0-flash")
	v.SetDefault("model.temperature", 0.4)
	v.SetDefault("model.timeout", 30*time.Second)
	v.SetDefault("model.max_tool_turns", 4)

	v.SetDefault("flows.fallback_on_error", true)
	v.SetDefault("flows.default_language", "en")
	v.SetDefault("flows.distressed_emotional_state", "distress")
	v.SetDefault("flows.non_distressed_emotional_state", "neutral")
	v.SetDefault("flows.context_window", 5)
	v.SetDefault("flows.unclear_sentinel", "Gesture unclear")
	v.SetDefault("flows.prompt_log_grace", 150*time.Millisecond)

	v.SetDefault("chat.backend", "memory")
	v.SetDefault("chat.max_messages", 1000)
	v.SetDefault("chat.redis.addr", "localhost:6379")
	v.SetDefault("chat.redis.key", "sahaaya-live-chat-messages")
	v.SetDefault("chat.redis.channel", "sahaaya-live-chat-events")

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.max_turns", 50)
	v.SetDefault("session.prefix", "sahaaya:sign-session:")

	v.SetDefault("prompt_log.max_open_conns", 10)
	v.SetDefault("prompt_log.max_idle_conns", 2)
	v.SetDefault("prompt_log.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("prompt_log.write_timeout", 5*time.Second)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode: %s, must be 'debug' or 'release'", c.Server.Mode)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	switch c.Model.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("invalid model provider: %s, must be 'gemini' or 'openai'", c.Model.Provider)
	}
	if c.Model.Model == "" {
		return fmt.Errorf("model.model is required")
	}
	if c.Model.Provider == "openai" && c.Model.BaseURL == "" {
		return fmt.Errorf("model.base_url is required for the openai provider")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be positive")
	}
	if c.Model.MaxToolTurns < 1 {
		return fmt.Errorf("model.max_tool_turns must be at least 1")
	}

	if err := c.Flows.Validate(); err != nil {
		return err
	}

	for name, backend := range map[string]string{"chat.backend": c.Chat.Backend, "session.backend": c.Session.Backend} {
		if backend != "memory" && backend != "redis" {
			return fmt.Errorf("invalid %s: %s, must be 'memory' or 'redis'", name, backend)
		}
	}
	if (c.Chat.Backend == "redis" || c.Session.Backend == "redis") && c.Chat.Redis.Addr == "" {
		return fmt.Errorf("chat.redis.addr is required for the redis backend")
	}

	switch c.PromptLog.Driver {
	case "":
	case "sqlite":
		if c.PromptLog.DSN == "" {
			return fmt.Errorf("prompt_log.dsn is required for sqlite")
		}
	case "mysql":
		if c.PromptLog.DSN == "" && c.PromptLog.Host == "" {
			return fmt.Errorf("prompt_log.host or prompt_log.dsn is required for mysql")
		}
	default:
		return fmt.Errorf("invalid prompt_log.driver: %s, must be 'mysql', 'sqlite' or empty", c.PromptLog.Driver)
	}

	return nil
}

// Validate checks the policy ranges
func (f FlowsConfig) Validate() error {
	if len(f.DefaultLanguage) != 2 {
		return fmt.Errorf("flows.default_language must be an ISO 639-1 code, got %q", f.DefaultLanguage)
	}
	if f.ContextWindow < 0 {
		return fmt.Errorf("flows.context_window must not be negative")
	}
	if strings.TrimSpace(f.DistressedEmotionalState) == "" || strings.TrimSpace(f.NonDistressedEmotionalState) == "" {
		return fmt.Errorf("flows emotional state defaults must not be empty")
	}
	return nil
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetReadTimeout returns the server read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return c.Server.ReadTimeout
}

// GetWriteTimeout returns the server write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Server.WriteTimeout
}
