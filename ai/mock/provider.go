package mock

import "github.com/poiesic/refind/ai"

// MockProvider implements ai.ModelProvider with mock embedders for testing.
type MockProvider struct {
	textEmbedder  *MockTextEmbedder
	imageEmbedder *MockImageEmbedder
	faceEmbedder  *MockFaceEmbedder
}

var _ ai.ModelProvider = (*MockProvider)(nil)

// NewMockProvider creates a provider with default deterministic mock embedders.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		textEmbedder:  NewMockTextEmbedder(),
		imageEmbedder: NewMockImageEmbedder(),
		faceEmbedder:  NewMockFaceEmbedder(),
	}
}

// TextEmbedder returns the mock text embedder as the interface type.
func (p *MockProvider) TextEmbedder() ai.TextEmbedder {
	return p.textEmbedder
}

// ImageEmbedder returns the mock image embedder as the interface type.
func (p *MockProvider) ImageEmbedder() ai.ImageEmbedder {
	return p.imageEmbedder
}

// FaceEmbedder returns the mock face embedder as the interface type.
func (p *MockProvider) FaceEmbedder() ai.FaceEmbedder {
	return p.faceEmbedder
}

// GetMockTextEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockTextEmbedder() *MockTextEmbedder {
	return p.textEmbedder
}

// GetMockImageEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockImageEmbedder() *MockImageEmbedder {
	return p.imageEmbedder
}

// GetMockFaceEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockFaceEmbedder() *MockFaceEmbedder {
	return p.faceEmbedder
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}
