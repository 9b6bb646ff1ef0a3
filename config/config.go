package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	// MaxTemperature keeps extraction close to deterministic.
	MaxTemperature = 0.3

	configFileEnv = "SKILLSYNC_CONFIG"
)

type Config struct {
	Port     string `koanf:"port"`
	GinMode  string `koanf:"gin_mode"`
	LogLevel string `koanf:"log_level"`

	DatabaseDriver string `koanf:"database_driver"`
	DBUrl          string `koanf:"database_url"`

	JWTSecret   string        `koanf:"jwt_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	FrontendURL string        `koanf:"frontend_url"`

	// Redis Configuration
	RedisURL      string `koanf:"redis_url"`
	RedisPassword string `koanf:"redis_password"`

	// Rate Limiting Configuration
	RateLimitWindowSeconds    int `koanf:"rate_limit_window_seconds"`
	RateLimitGlobalThreshold  int `koanf:"rate_limit_global_threshold"`
	RateLimitAuthThreshold    int `koanf:"rate_limit_auth_threshold"`
	RateLimitLoginThreshold   int `koanf:"rate_limit_login_threshold"`
	RateLimitAnalyzeThreshold int `koanf:"rate_limit_analyze_threshold"`

	// Completion endpoint
	LLMProvider    string        `koanf:"llm_provider"`
	LLMAPIKey      string        `koanf:"llm_api_key"`
	LLMBaseURL     string        `koanf:"llm_base_url"`
	LLMModel       string        `koanf:"llm_model"`
	LLMMaxTokens   int           `koanf:"llm_max_tokens"`
	LLMTemperature float64       `koanf:"llm_temperature"`
	LLMTimeout     time.Duration `koanf:"llm_timeout"`

	ResourceSearchURL string `koanf:"resource_search_url"`
}

var providerDefaults = map[string]struct{ baseURL, model string }{
	ProviderOpenAI:    {baseURL: "https://api.openai.com/v1", model: "gpt-3.5-turbo"},
	ProviderGemini:    {model: "gemini-2.5-flash"},
	ProviderAnthropic: {model: "claude-3-5-haiku-latest"},
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		Port:                      "8080",
		LogLevel:                  "info",
		DatabaseDriver:            DriverPostgres,
		TokenTTL:                  7 * 24 * time.Hour,
		FrontendURL:               "http://localhost:5173",
		RateLimitWindowSeconds:    60,
		RateLimitGlobalThreshold:  100,
		RateLimitAuthThreshold:    10,
		RateLimitLoginThreshold:   5,
		RateLimitAnalyzeThreshold: 20,
		LLMProvider:               ProviderOpenAI,
		LLMMaxTokens:              600,
		LLMTemperature:            0.2,
		LLMTimeout:                60 * time.Second,
		ResourceSearchURL:         "https://www.coursera.org/search?query=",
	}
}

// LoadConfig layers defaults, an optional YAML file named by SKILLSYNC_CONFIG
// and the process environment (low -> high precedence). A local .env file is
// folded into the environment first.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// DATABASE_URL -> database_url, matching the koanf tags.
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = k.String("openai_api_key")
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.LLMAPIKey == "" {
		log.Println("WARNING: LLM_API_KEY not configured. Analysis requests will fail upstream.")
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))

	if d, ok := providerDefaults[c.LLMProvider]; ok {
		if c.LLMBaseURL == "" {
			c.LLMBaseURL = d.baseURL
		}
		if c.LLMModel == "" {
			c.LLMModel = d.model
		}
	}
	c.LLMBaseURL = strings.TrimRight(c.LLMBaseURL, "/")
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if _, ok := providerDefaults[c.LLMProvider]; !ok {
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > MaxTemperature {
		return fmt.Errorf("config: LLM_TEMPERATURE must be within [0, %.1f]", MaxTemperature)
	}
	if c.LLMMaxTokens <= 0 {
		return errors.New("config: LLM_MAX_TOKENS must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}

// RateLimitWindow returns the rate limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// LogValue keeps secrets out of structured logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("database_driver", c.DatabaseDriver),
		slog.Bool("database_url_set", c.DBUrl != ""),
		slog.Bool("redis_configured", c.RedisURL != ""),
		slog.String("frontend_url", c.FrontendURL),
		slog.String("llm_provider", c.LLMProvider),
		slog.String("llm_model", c.LLMModel),
		slog.Bool("llm_api_key_set", c.LLMAPIKey != ""),
		slog.Duration("token_ttl", c.TokenTTL),
	)
}
