package ai

import "context"

// Vector dimensionalities produced by the embedding services.
const (
	FaceDim  = 512
	ImageDim = 512
	TextDim  = 384
)

// TextEmbedder generates vector embeddings from report descriptions.
// Implementations must be thread-safe for concurrent use.
type TextEmbedder interface {
	// EmbedText generates a vector embedding for a description in the given
	// language. The language hint may be empty.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text, language string) ([]float32, error)
}

// ImageEmbedder generates whole-image vector embeddings from photos.
// Implementations must be thread-safe for concurrent use.
type ImageEmbedder interface {
	// EmbedImage generates a vector embedding for a single photo.
	// Returns an error if the embedding generation fails.
	EmbedImage(ctx context.Context, photo []byte) ([]float32, error)
}

// FaceEmbedder detects faces in photos and generates one vector per face.
// Implementations must be thread-safe for concurrent use.
type FaceEmbedder interface {
	// EmbedFaces detects faces across the given photos and returns one
	// vector per detected face. A photo without faces contributes nothing;
	// an empty result with a nil error means no faces were found.
	EmbedFaces(ctx context.Context, photos [][]byte) ([][]float32, error)
}

// ModelProvider aggregates embedding services for convenient initialization
// and lifecycle management.
type ModelProvider interface {
	// TextEmbedder returns the description embedding service.
	TextEmbedder() TextEmbedder

	// ImageEmbedder returns the photo embedding service.
	ImageEmbedder() ImageEmbedder

	// FaceEmbedder returns the face detection and embedding service.
	FaceEmbedder() FaceEmbedder

	// Close releases resources held by the provider and its services.
	Close() error
}
