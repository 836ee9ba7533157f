package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/filmwise/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		LLMProvider:   config.ProviderOllama,
		LLMModel:      "llama3.1",
		OllamaHost:    "http://localhost:11434",
		OracleTimeout: time.Second,
	}
}

func TestNewOracleOllama(t *testing.T) {
	oracle, err := NewOracle(testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOllama, oracle.Provider())
	assert.Equal(t, "llama3.1", oracle.Model())
}

func TestNewOracleUnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = "cohere"

	_, err := NewOracle(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestNewOracleMissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = config.ProviderAnthropic

	_, err := NewOracle(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSwitchKeepsClientOnFailure(t *testing.T) {
	oracle, err := NewOracle(testConfig(), nil)
	require.NoError(t, err)

	err = oracle.Switch(config.ProviderOpenAI, "gpt-4o-mini")
	require.ErrorIs(t, err, ErrOracleUnavailable)

	assert.Equal(t, config.ProviderOllama, oracle.Provider())
	assert.Equal(t, "llama3.1", oracle.Model())
}

func TestSwitchAppliesDefaultModel(t *testing.T) {
	oracle, err := NewOracle(testConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, oracle.Switch(config.ProviderOllama, ""))
	assert.Equal(t, defaultModels[config.ProviderOllama], oracle.Model())
}
