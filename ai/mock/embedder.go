package mock

import (
	"context"
	"hash/fnv"

	"github.com/poiesic/refind/ai"
)

// MockTextEmbedder is a test double for ai.TextEmbedder.
// It allows custom behavior injection via function fields.
type MockTextEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text, language string) ([]float32, error)

	callCount int
}

// NewMockTextEmbedder creates a mock text embedder with default deterministic behavior.
func NewMockTextEmbedder() *MockTextEmbedder {
	return &MockTextEmbedder{}
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockTextEmbedder) EmbedText(ctx context.Context, text, language string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text, language)
	}

	return generateDeterministicVector(text, ai.TextDim), nil
}

// CallCount returns the number of times EmbedText was called.
func (m *MockTextEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockTextEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
}

// MockImageEmbedder is a test double for ai.ImageEmbedder.
type MockImageEmbedder struct {
	// EmbedImageFunc is called by EmbedImage if set.
	// If nil, uses default deterministic behavior.
	EmbedImageFunc func(ctx context.Context, photo []byte) ([]float32, error)

	callCount int
}

// NewMockImageEmbedder creates a mock image embedder with default deterministic behavior.
func NewMockImageEmbedder() *MockImageEmbedder {
	return &MockImageEmbedder{}
}

// EmbedImage generates a deterministic embedding based on photo content hash.
func (m *MockImageEmbedder) EmbedImage(ctx context.Context, photo []byte) ([]float32, error) {
	m.callCount++

	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, photo)
	}

	return generateDeterministicVector(string(photo), ai.ImageDim), nil
}

// CallCount returns the number of times EmbedImage was called.
func (m *MockImageEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockImageEmbedder) Reset() {
	m.callCount = 0
	m.EmbedImageFunc = nil
}

// MockFaceEmbedder is a test double for ai.FaceEmbedder.
// By default every photo is treated as containing exactly one face.
type MockFaceEmbedder struct {
	// EmbedFacesFunc is called by EmbedFaces if set.
	// If nil, uses default deterministic behavior.
	EmbedFacesFunc func(ctx context.Context, photos [][]byte) ([][]float32, error)

	callCount int
}

// NewMockFaceEmbedder creates a mock face embedder with default deterministic behavior.
func NewMockFaceEmbedder() *MockFaceEmbedder {
	return &MockFaceEmbedder{}
}

// EmbedFaces generates one deterministic vector per photo.
func (m *MockFaceEmbedder) EmbedFaces(ctx context.Context, photos [][]byte) ([][]float32, error) {
	m.callCount++

	if m.EmbedFacesFunc != nil {
		return m.EmbedFacesFunc(ctx, photos)
	}

	vectors := make([][]float32, len(photos))
	for i, photo := range photos {
		vectors[i] = generateDeterministicVector(string(photo), ai.FaceDim)
	}
	return vectors, nil
}

// CallCount returns the number of times EmbedFaces was called.
func (m *MockFaceEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockFaceEmbedder) Reset() {
	m.callCount = 0
	m.EmbedFacesFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from content.
// It uses FNV hash to ensure the same content always produces the same vector.
func generateDeterministicVector(content string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(content))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit vector
	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	norm := float32(1.0)
	if sumSquares > 0 {
		norm = float32(1.0) / float32(sumSquares)
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
