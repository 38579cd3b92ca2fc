package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/refind/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextEmbedder implements ai.TextEmbedder using OpenAI-compatible embedding APIs.
type TextEmbedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newTextEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTextEmbedder(config *ai.Config) (*TextEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &TextEmbedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-text-embedder"),
	}, nil
}

// NewTextEmbedder creates a new text embedder using the provided configuration.
//
// Returns ai.TextEmbedder interface to enforce abstraction.
func NewTextEmbedder(config *ai.Config) (ai.TextEmbedder, error) {
	return newTextEmbedder(config)
}

// EmbedText generates a vector embedding for a report description.
// The language hint is currently unused; multilingual models handle the
// input directly.
func (e *TextEmbedder) EmbedText(ctx context.Context, text, language string) ([]float32, error) {
	e.logger.Debug("generating embedding for description", "length", len(text), "language", language)

	embeddings, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(embeddings) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return embeddings[0], nil
}
