// Package config loads filmwise configuration and constructs the logger.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Completion oracle providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogleAI  = "googleai"
)

// Config holds all configuration values.
type Config struct {
	// Store paths (embedded SQLite)
	CatalogDBPath string
	MemoryDBPath  string

	// Completion oracle
	LLMProvider     string
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	OracleTimeout   time.Duration

	// Context window
	ContextTurns  int // max recent turns fetched per turn
	ContextTokens int // approximate token budget before compression

	// Preference maintenance
	DecayHorizon time.Duration
	DecayFactor  float64

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors Config for the optional YAML config file.
// Environment variables override file values.
type fileConfig struct {
	CatalogDB     string  `yaml:"catalog_db"`
	MemoryDB      string  `yaml:"memory_db"`
	LLMProvider   string  `yaml:"llm_provider"`
	LLMModel      string  `yaml:"llm_model"`
	OllamaHost    string  `yaml:"ollama_host"`
	OracleTimeout string  `yaml:"oracle_timeout"`
	ContextTurns  int     `yaml:"context_turns"`
	ContextTokens int     `yaml:"context_tokens"`
	DecayHorizon  string  `yaml:"decay_horizon"`
	DecayFactor   float64 `yaml:"decay_factor"`
	LogFile       string  `yaml:"log_file"`
	LogLevel      string  `yaml:"log_level"`
}

// Load reads configuration from an optional YAML file and the environment.
// Precedence: defaults < file < environment.
func Load(path string) (Config, error) {
	cfg := Config{
		CatalogDBPath: "data/films.db",
		MemoryDBPath:  "data/memory.db",
		LLMProvider:   ProviderOllama,
		LLMModel:      "llama3.1",
		OllamaHost:    "http://localhost:11434",
		OracleTimeout: 30 * time.Second,
		ContextTurns:  20,
		ContextTokens: 6000,
		DecayHorizon:  30 * 24 * time.Hour,
		DecayFactor:   0.8,
		LogFile:       "/tmp/filmwise.log",
		LogLevel:      slog.LevelInfo,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.CatalogDBPath, fc.CatalogDB)
	setString(&c.MemoryDBPath, fc.MemoryDB)
	setString(&c.LLMProvider, fc.LLMProvider)
	setString(&c.LLMModel, fc.LLMModel)
	setString(&c.OllamaHost, fc.OllamaHost)
	setString(&c.LogFile, fc.LogFile)
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.ContextTurns > 0 {
		c.ContextTurns = fc.ContextTurns
	}
	if fc.ContextTokens > 0 {
		c.ContextTokens = fc.ContextTokens
	}
	if fc.DecayFactor > 0 {
		c.DecayFactor = fc.DecayFactor
	}
	if fc.OracleTimeout != "" {
		d, err := time.ParseDuration(fc.OracleTimeout)
		if err != nil {
			return fmt.Errorf("parse oracle_timeout: %w", err)
		}
		c.OracleTimeout = d
	}
	if fc.DecayHorizon != "" {
		d, err := time.ParseDuration(fc.DecayHorizon)
		if err != nil {
			return fmt.Errorf("parse decay_horizon: %w", err)
		}
		c.DecayHorizon = d
	}

	return nil
}

func (c *Config) applyEnv() {
	c.CatalogDBPath = getEnv("FILMWISE_CATALOG_DB", c.CatalogDBPath)
	c.MemoryDBPath = getEnv("FILMWISE_MEMORY_DB", c.MemoryDBPath)
	c.LLMProvider = strings.ToLower(getEnv("FILMWISE_LLM_PROVIDER", c.LLMProvider))
	c.LLMModel = getEnv("FILMWISE_LLM_MODEL", c.LLMModel)
	c.OllamaHost = getEnv("OLLAMA_HOST", c.OllamaHost)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.GoogleAPIKey = getEnv("GOOGLE_API_KEY", c.GoogleAPIKey)
	c.LogFile = getEnv("FILMWISE_LOG_FILE", c.LogFile)
	if v := os.Getenv("FILMWISE_LOG_LEVEL"); v != "" {
		c.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv("FILMWISE_ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.OracleTimeout = d
		}
	}
	if v := os.Getenv("FILMWISE_CONTEXT_TURNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ContextTurns = n
		}
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
