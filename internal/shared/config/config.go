package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxGenerationRetries bounds GENERATION_MAX_RETRIES.
const MaxGenerationRetries = 10

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider       string
	LLMModel          string
	AnthropicAPIKey   string
	AnthropicModel    string
	OpenAIAPIKey      string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string
	LLMTimeout        time.Duration
	MaxRetries        int
	InitialDelay      time.Duration
	GenerationTimeout time.Duration

	TemplatesPath  string
	Brand          string
	ArchiveExports bool

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	GenerateRatePerMinute float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "anthropic"))

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		LLMProvider:       provider,
		LLMModel:          getEnv("LLM_MODEL", ""),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		MaxRetries:        getEnvInt("GENERATION_MAX_RETRIES", 3),
		InitialDelay:      time.Duration(getEnvInt("GENERATION_INITIAL_DELAY_MS", 1000)) * time.Millisecond,
		GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 300)) * time.Second,

		TemplatesPath:  getEnv("DOCUMENT_TEMPLATES_PATH", ""),
		Brand:          getEnv("EXPORT_BRAND", "Audit"),
		ArchiveExports: getEnvBool("EXPORT_ARCHIVE", false),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "exports/"),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		GenerateRatePerMinute: float64(getEnvInt("RATE_LIMIT_GENERATE_PER_MIN", 20)),
	}

	if cfg.LLMModel != "" {
		switch provider {
		case "openai":
			cfg.OpenAIModel = cfg.LLMModel
		case "gemini":
			cfg.GeminiModel = cfg.LLMModel
		default:
			cfg.AnthropicModel = cfg.LLMModel
		}
	}
	if cfg.MaxRetries <= 0 {
		log.Printf("GENERATION_MAX_RETRIES must be positive, using 3")
		cfg.MaxRetries = 3
	}
	if cfg.MaxRetries > MaxGenerationRetries {
		log.Printf("GENERATION_MAX_RETRIES=%d exceeds %d, capping", cfg.MaxRetries, MaxGenerationRetries)
		cfg.MaxRetries = MaxGenerationRetries
	}
	return cfg
}

// ModelFor returns the configured model name for a provider.
func (c Config) ModelFor(provider string) string {
	switch normalizeProvider(provider) {
	case "openai":
		return c.OpenAIModel
	case "gemini":
		return c.GeminiModel
	default:
		return c.AnthropicModel
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return "anthropic"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
