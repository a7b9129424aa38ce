package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	// Mealie is the only required external system.
	MealieBaseURL   string
	MealieStaticURL string
	MealieToken     string

	// llama.cpp-compatible chat completion server.
	LLMServerURL       string
	LLMResponseTimeout time.Duration

	ModelDir   string
	StorageDir string

	// Optional: enables the async submission queue and worker.
	RedisURL string

	// Optional: protects /api routes when set.
	AuthJWTSecret string

	// Instagram cookie material for yt-dlp (original content, session pair,
	// or "k=v; k2=v2" string).
	IGCookiesNetscape string
	IGSessionID       string
	IGCSRFToken       string
	IGCookieString    string

	OtelExporterOTLPEndpoint string
	SentryDSN                string

	Port string

	Transcription TranscriptionConfig
}

type TranscriptionConfig struct {
	Provider         string `yaml:"provider"`
	FallbackEnabled  bool   `yaml:"fallback_enabled"`
	FallbackProvider string `yaml:"fallback_provider"`
	RemoteURL        string `yaml:"remote_url"`
	RemoteAPIKey     string `yaml:"remote_api_key"`
	WhisperBinary    string `yaml:"whisper_binary"`
	WhisperModel     string `yaml:"whisper_model"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		MealieBaseURL:            strings.TrimRight(os.Getenv("MEALIE_BASE_URL"), "/"),
		MealieStaticURL:          strings.TrimRight(os.Getenv("MEALIE_STATIC_URL"), "/"),
		MealieToken:              os.Getenv("MEALIE_TOKEN"),
		LLMServerURL:             strings.TrimRight(os.Getenv("LLM_SERVER_URL"), "/"),
		ModelDir:                 os.Getenv("MODEL_DIR"),
		StorageDir:               os.Getenv("STORAGE_DIR"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		AuthJWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		IGCookiesNetscape:        os.Getenv("IG_COOKIES_NETSCAPE"),
		IGSessionID:              os.Getenv("IG_SESSIONID"),
		IGCSRFToken:              os.Getenv("IG_CSRFTOKEN"),
		IGCookieString:           os.Getenv("IG_COOKIE_STRING"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	if v := os.Getenv("LLM_RESPONSE_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_RESPONSE_TIMEOUT: %w", err)
		}
		cfg.LLMResponseTimeout = time.Duration(secs) * time.Second
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ladle"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MealieStaticURL == "" {
		cfg.MealieStaticURL = cfg.MealieBaseURL
	}
	if cfg.LLMServerURL == "" {
		cfg.LLMServerURL = "http://llm:6998"
	}
	if cfg.LLMResponseTimeout == 0 {
		cfg.LLMResponseTimeout = 600 * time.Second
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = "models"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = os.TempDir()
	}

	cfg.SetTranscriptionDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Transcription TranscriptionConfig `yaml:"transcription"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Transcription.Provider != "" {
		c.Transcription.Provider = yamlConfig.Transcription.Provider
	}
	if yamlConfig.Transcription.FallbackEnabled {
		c.Transcription.FallbackEnabled = yamlConfig.Transcription.FallbackEnabled
	}
	if yamlConfig.Transcription.FallbackProvider != "" {
		c.Transcription.FallbackProvider = yamlConfig.Transcription.FallbackProvider
	}
	if yamlConfig.Transcription.RemoteURL != "" {
		c.Transcription.RemoteURL = yamlConfig.Transcription.RemoteURL
	}
	if yamlConfig.Transcription.RemoteAPIKey != "" {
		c.Transcription.RemoteAPIKey = yamlConfig.Transcription.RemoteAPIKey
	}
	if yamlConfig.Transcription.WhisperBinary != "" {
		c.Transcription.WhisperBinary = yamlConfig.Transcription.WhisperBinary
	}
	if yamlConfig.Transcription.WhisperModel != "" {
		c.Transcription.WhisperModel = yamlConfig.Transcription.WhisperModel
	}

	return nil
}

func (c *Config) SetTranscriptionDefaults() {
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "whispercpp"
	}
	if c.Transcription.FallbackProvider == "" {
		c.Transcription.FallbackProvider = "remote"
	}
	if c.Transcription.WhisperBinary == "" {
		c.Transcription.WhisperBinary = "whisper-cli"
	}
	if c.Transcription.WhisperModel == "" {
		c.Transcription.WhisperModel = c.ModelDir + "/ggml-tiny.bin"
	}
}

func (c *Config) validate() error {
	if c.MealieBaseURL == "" {
		return fmt.Errorf("MEALIE_BASE_URL is required")
	}
	if c.MealieToken == "" {
		return fmt.Errorf("MEALIE_TOKEN is required")
	}
	return nil
}
