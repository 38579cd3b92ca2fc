// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/refind/ai"
)

// Provider implements ai.ModelProvider using OpenAI-compatible services for
// text and the visual encoder service for faces and images.
//
// When no encoder host is configured the visual embedders report
// ai.ErrModelUnavailable, which the matching engine treats as an absent
// modality rather than a failure.
type Provider struct {
	config       *ai.Config
	textEmbedder *TextEmbedder
	encoder      *EncoderClient
	logger       *slog.Logger
}

// NewProvider creates a new model provider.
// The config is validated and normalized before use.
//
// Returns ai.ModelProvider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.ModelProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	textEmbedder, err := newTextEmbedder(config)
	if err != nil {
		return nil, err
	}

	var encoder *EncoderClient
	if config.EncoderHost != "" {
		encoder, err = newEncoderClient(config)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:       config,
		textEmbedder: textEmbedder,
		encoder:      encoder,
		logger:       slog.Default().With("component", "openai-provider"),
	}, nil
}

// TextEmbedder returns the description embedding service.
func (p *Provider) TextEmbedder() ai.TextEmbedder {
	return p.textEmbedder
}

// ImageEmbedder returns the photo embedding service.
func (p *Provider) ImageEmbedder() ai.ImageEmbedder {
	if p.encoder == nil {
		return unavailableEncoder{}
	}
	return p.encoder
}

// FaceEmbedder returns the face detection and embedding service.
func (p *Provider) FaceEmbedder() ai.FaceEmbedder {
	if p.encoder == nil {
		return unavailableEncoder{}
	}
	return p.encoder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

// unavailableEncoder stands in for the visual encoder when none is configured.
type unavailableEncoder struct{}

func (unavailableEncoder) EmbedFaces(context.Context, [][]byte) ([][]float32, error) {
	return nil, ai.ErrModelUnavailable
}

func (unavailableEncoder) EmbedImage(context.Context, []byte) ([]float32, error) {
	return nil, ai.ErrModelUnavailable
}
