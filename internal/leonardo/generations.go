package leonardo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	// ErrNoGenerationID is returned when the API accepts a submission
	// but the response carries no job id to poll
	ErrNoGenerationID = errors.New("no generation id returned")
)

// CreateGeneration submits an image generation job and returns the
// generation id to poll. Phoenix requests must not carry PhotoReal
// fields, the API rejects the combination.
func (c *Client) CreateGeneration(ctx context.Context, req *GenerationRequest) (string, error) {
	if req.IsPhoenix {
		req.PhotoReal = false
		req.PhotoRealVersion = ""
	}

	var out struct {
		SDGenerationJob struct {
			GenerationID string `json:"generationId"`
		} `json:"sdGenerationJob"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/generations", req, &out); err != nil {
		return "", fmt.Errorf("create generation: %w", err)
	}

	if out.SDGenerationJob.GenerationID == "" {
		return "", ErrNoGenerationID
	}

	return out.SDGenerationJob.GenerationID, nil
}

// GetGeneration fetches the current state of a generation
func (c *Client) GetGeneration(ctx context.Context, generationID string) (*Generation, error) {
	var gen Generation
	path := "/generations/" + url.PathEscape(generationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}
