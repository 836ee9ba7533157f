// Package llm wraps langchaingo chat models behind a single bounded
// completion call. The agent makes exactly one oracle call per turn and
// never retries; failures surface as sentinel errors the orchestrator
// maps to a degraded reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/raphaelgruber/filmwise/internal/config"
)

var (
	// ErrOracleTimeout is returned when the completion call exceeds the
	// configured deadline.
	ErrOracleTimeout = errors.New("oracle timeout")

	// ErrOracleUnavailable is returned for any other completion failure,
	// including provider construction errors on Switch.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)

// defaultModels maps each provider to the model used when none is given.
var defaultModels = map[string]string{
	config.ProviderOllama:    "llama3.1",
	config.ProviderOpenAI:    "gpt-4o-mini",
	config.ProviderAnthropic: "claude-3-5-haiku-latest",
	config.ProviderGoogleAI:  "gemini-1.5-flash",
}

// Oracle is a provider-switchable completion client. All methods are safe
// for concurrent use; Switch swaps the underlying model atomically.
type Oracle struct {
	mu        sync.RWMutex
	model     llms.Model
	provider  string
	modelName string

	cfg    config.Config
	logger *slog.Logger
}

// NewOracle builds the oracle for the configured provider.
func NewOracle(cfg config.Config, logger *slog.Logger) (*Oracle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	modelName := cfg.LLMModel
	if modelName == "" {
		modelName = defaultModels[cfg.LLMProvider]
	}

	model, err := newModel(cfg, cfg.LLMProvider, modelName)
	if err != nil {
		return nil, err
	}

	return &Oracle{
		model:     model,
		provider:  cfg.LLMProvider,
		modelName: modelName,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// newModel constructs a langchaingo model for the given provider.
func newModel(cfg config.Config, provider, modelName string) (llms.Model, error) {
	if modelName == "" {
		modelName = defaultModels[provider]
	}

	switch provider {
	case config.ProviderOllama:
		model, err := ollama.New(
			ollama.WithModel(modelName),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return model, nil

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return model, nil

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err := anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
		return model, nil

	case config.ProviderGoogleAI:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("Google API key required")
		}
		model, err := googleai.New(context.Background(),
			googleai.WithAPIKey(cfg.GoogleAPIKey),
			googleai.WithDefaultModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// Complete issues one completion bounded by the configured timeout.
func (o *Oracle) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	o.mu.RLock()
	model := o.model
	o.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.OracleTimeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	response, err := model.GenerateContent(ctx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %v", ErrOracleTimeout, o.cfg.OracleTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices", ErrOracleUnavailable)
	}

	o.logger.Debug("completion",
		"provider", o.Provider(), "model", o.Model(), "duration", time.Since(start))

	return response.Choices[0].Content, nil
}

// Switch rebuilds the client for a new provider and model at runtime.
// The current client stays active if the rebuild fails.
func (o *Oracle) Switch(provider, modelName string) error {
	if modelName == "" {
		modelName = defaultModels[provider]
	}

	model, err := newModel(o.cfg, provider, modelName)
	if err != nil {
		return fmt.Errorf("%w: switch to %s: %v", ErrOracleUnavailable, provider, err)
	}

	o.mu.Lock()
	o.model = model
	o.provider = provider
	o.modelName = modelName
	o.mu.Unlock()

	o.logger.Info("provider switched", "provider", provider, "model", modelName)
	return nil
}

// Provider returns the active provider name.
func (o *Oracle) Provider() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.provider
}

// Model returns the active model name.
func (o *Oracle) Model() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.modelName
}
