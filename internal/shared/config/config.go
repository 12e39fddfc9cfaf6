package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration. Credentials are read once at
// startup and treated as read-only afterwards; missing keys are surfaced as
// configuration errors by the services that need them, not here.
type Config struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Env             string   `envconfig:"ENV" default:"dev"`
	CORSAllowOrigin []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173"`

	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiTimeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`

	DeepgramAPIKey  string        `envconfig:"DEEPGRAM_API_KEY"`
	DeepgramTimeout time.Duration `envconfig:"DEEPGRAM_TIMEOUT" default:"60s"`

	ClassifierURL     string        `envconfig:"CLASSIFIER_URL" default:"http://localhost:5001"`
	ClassifierTimeout time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"30s"`
}

// Load reads configuration from environment variables with sensible defaults.
// A local .env file is loaded best-effort for dev convenience.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.Env = normalizeEnv(cfg.Env)
	return cfg, nil
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
