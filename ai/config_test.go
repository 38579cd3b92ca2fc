package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Empty(t, cfg.EncoderHost)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://example.com:8080"),
		WithEncoderHost("http://example.com:9200/"),
		WithEmbeddingModel("text-embedding-3-small"),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://example.com:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://example.com:9200", cfg.EncoderHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
}

func TestNormalize_AddsV1Suffix(t *testing.T) {
	cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)

	// Idempotent
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg = &Config{EmbeddingHost: "http://localhost:11434"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{EmbeddingHost: "http://localhost:11434", EmbeddingModel: "embeddinggemma"}
	assert.NoError(t, cfg.Validate())
}
