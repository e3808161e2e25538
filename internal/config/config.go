package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/vytor/wordflash/internal/logger"
)

// Provider names accepted in PROVIDERS.
const (
	ProviderDictionaryAPI = "dictionaryapi"
	ProviderWiktionary    = "wiktionary"
	ProviderCambridge     = "cambridge"
	ProviderOpenAI        = "openai"
)

// Definition store backends accepted in DEFINITION_STORE.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	Addr      string `env:"ADDR" validate:"required"`
	DBPath    string `env:"DB_PATH" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=console json"`

	DefinitionStore string `env:"DEFINITION_STORE" validate:"oneof=sqlite redis"`
	RedisAddr       string `env:"REDIS_ADDR" validate:"required_if=DefinitionStore redis"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" validate:"gte=0"`
	RedisPrefix     string `env:"REDIS_PREFIX"`

	CacheTTL        time.Duration `env:"CACHE_TTL" validate:"gt=0"`
	MemoryCacheSize int           `env:"MEMORY_CACHE_SIZE" validate:"gte=1"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" validate:"gt=0"`
	ProviderBackoff time.Duration `env:"PROVIDER_BACKOFF" validate:"gte=0"`
	Providers       []string      `env:"PROVIDERS" validate:"min=1,dive,oneof=dictionaryapi wiktionary cambridge openai"`

	DictionaryAPIURL string `env:"DICTIONARY_API_URL" validate:"required,url"`
	WiktionaryURL    string `env:"WIKTIONARY_URL" validate:"required,url"`
	CambridgeURL     string `env:"CAMBRIDGE_URL" validate:"required,url"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `env:"OPENAI_BASE_URL" validate:"required,url"`
	OpenAIModel         string `env:"OPENAI_MODEL" validate:"required"`
	OpenAIRatePerMinute int    `env:"OPENAI_RATE_PER_MINUTE" validate:"gte=1"`

	WorkerCount        int    `env:"WORKER_COUNT" validate:"gte=1"`
	WorkerQueueSize    int    `env:"WORKER_QUEUE_SIZE" validate:"gte=1"`
	CachePurgeSchedule string `env:"CACHE_PURGE_SCHEDULE" validate:"required"`
	RollupSchedule     string `env:"ROLLUP_SCHEDULE" validate:"required"`
	WarmupSchedule     string `env:"WARMUP_SCHEDULE" validate:"required"`
	WarmupLimit        int    `env:"WARMUP_LIMIT" validate:"gte=0"`

	OTelEnabled  bool   `env:"OTEL_ENABLED"`
	OTelExporter string `env:"OTEL_EXPORTER" validate:"oneof=stdout otlp"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	SessionSize int `env:"SESSION_SIZE" validate:"gte=1,lte=500"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":8080"),
		DBPath:    envOr("DB_PATH", "file:wordflash.db"),
		LogLevel:  envOr("LOG_LEVEL", "INFO"),
		LogFormat: envOr("LOG_FORMAT", "console"),

		DefinitionStore: envOr("DEFINITION_STORE", StoreSQLite),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envIntOr("REDIS_DB", 0),
		RedisPrefix:     envOr("REDIS_PREFIX", "wordflash:definition:"),

		CacheTTL:        envDurationOr("CACHE_TTL", 7*24*time.Hour),
		MemoryCacheSize: envIntOr("MEMORY_CACHE_SIZE", 1024),
		ProviderTimeout: envDurationOr("PROVIDER_TIMEOUT", 8*time.Second),
		ProviderBackoff: envDurationOr("PROVIDER_BACKOFF", 250*time.Millisecond),
		Providers:       envListOr("PROVIDERS", []string{ProviderDictionaryAPI, ProviderWiktionary, ProviderCambridge, ProviderOpenAI}),

		DictionaryAPIURL: envOr("DICTIONARY_API_URL", "https://api.dictionaryapi.dev"),
		WiktionaryURL:    envOr("WIKTIONARY_URL", "https://en.wiktionary.org"),
		CambridgeURL:     envOr("CAMBRIDGE_URL", "https://dictionary.cambridge.org"),

		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:         envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIRatePerMinute: envIntOr("OPENAI_RATE_PER_MINUTE", 30),

		WorkerCount:        envIntOr("WORKER_COUNT", 2),
		WorkerQueueSize:    envIntOr("WORKER_QUEUE_SIZE", 64),
		CachePurgeSchedule: envOr("CACHE_PURGE_SCHEDULE", "0 3 * * *"),
		RollupSchedule:     envOr("ROLLUP_SCHEDULE", "10 0 * * *"),
		WarmupSchedule:     envOr("WARMUP_SCHEDULE", "30 5 * * *"),
		WarmupLimit:        envIntOr("WARMUP_LIMIT", 200),

		OTelEnabled:  envBoolOr("OTEL_ENABLED", false),
		OTelExporter: envOr("OTEL_EXPORTER", "stdout"),
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		SessionSize: envIntOr("SESSION_SIZE", 20),
	}
}

// HasProvider reports whether name is enabled in PROVIDERS.
func (c Config) HasProvider(name string) bool {
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks every field and reports all problems at once, naming the
// environment variable responsible for each.
func (c Config) Validate() error {
	c.LogLevel = strings.ToUpper(c.LogLevel)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s cannot be empty", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fmt.Sprint(fe.Value()))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Warn("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		logger.Warn("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
