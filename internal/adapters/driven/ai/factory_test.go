package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/config"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateEmbeddingService(config.EmbeddingConfig{})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateEmbeddingService(config.EmbeddingConfig{Provider: "ollama", Model: "nomic-embed-text"})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "nomic-embed-text", svc.ModelName())
	})

	t.Run("openai requires key", func(t *testing.T) {
		_, err := CreateEmbeddingService(config.EmbeddingConfig{Provider: "openai"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateEmbeddingService(config.EmbeddingConfig{Provider: "openai", APIKey: "sk-test"})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateEmbeddingService(config.EmbeddingConfig{Provider: "azure"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{Provider: "ollama", Model: "llama3.2"})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "llama3.2", svc.ModelName())
	})

	t.Run("openai requires key", func(t *testing.T) {
		_, err := CreateLLMService(config.LLMConfig{Provider: "openai"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateLLMService(config.LLMConfig{Provider: "bedrock"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
