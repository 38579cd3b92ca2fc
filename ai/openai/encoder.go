package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/refind/ai"
)

const encoderTimeout = 60 * time.Second

// EncoderClient talks to the visual encoder service for face detection and
// image embedding. Photos are normalized and sent base64-encoded; the
// service replies with raw vectors.
type EncoderClient struct {
	host   string
	client *http.Client
	logger *slog.Logger
}

var (
	_ ai.FaceEmbedder  = (*EncoderClient)(nil)
	_ ai.ImageEmbedder = (*EncoderClient)(nil)
)

// newEncoderClient is an internal constructor that returns the concrete type.
func newEncoderClient(config *ai.Config) (*EncoderClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.EncoderHost == "" {
		return nil, ai.ErrModelUnavailable
	}

	return &EncoderClient{
		host:   config.EncoderHost,
		client: &http.Client{Timeout: encoderTimeout},
		logger: slog.Default().With("component", "encoder-client"),
	}, nil
}

// NewEncoderClient creates a client for the visual encoder service.
func NewEncoderClient(config *ai.Config) (*EncoderClient, error) {
	return newEncoderClient(config)
}

type encodeRequest struct {
	Images []string `json:"images"`
}

type encodeResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// EmbedFaces detects faces across the given photos and returns one vector
// per detected face.
func (c *EncoderClient) EmbedFaces(ctx context.Context, photos [][]byte) ([][]float32, error) {
	c.logger.Debug("requesting face embeddings", "photos", len(photos))
	resp, err := c.encode(ctx, "/encode/faces", photos)
	if err != nil {
		c.logger.Error("face encoding failed", "err", err)
		return nil, err
	}
	return resp.Vectors, nil
}

// EmbedImage generates a vector embedding for a single photo.
func (c *EncoderClient) EmbedImage(ctx context.Context, photo []byte) ([]float32, error) {
	resp, err := c.encode(ctx, "/encode/image", [][]byte{photo})
	if err != nil {
		c.logger.Error("image encoding failed", "err", err)
		return nil, err
	}
	if len(resp.Vectors) == 0 {
		return nil, fmt.Errorf("encoder returned no vector")
	}
	return resp.Vectors[0], nil
}

// encode normalizes the photos and performs one request to the encoder.
func (c *EncoderClient) encode(ctx context.Context, path string, photos [][]byte) (*encodeResponse, error) {
	images := make([]string, 0, len(photos))
	for _, photo := range photos {
		normalized, err := normalizePhoto(photo)
		if err != nil {
			return nil, err
		}
		images = append(images, base64.StdEncoding.EncodeToString(normalized))
	}

	body, err := json.Marshal(encodeRequest{Images: images})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("encoder returned %d: %s", httpResp.StatusCode, msg)
	}

	var resp encodeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
