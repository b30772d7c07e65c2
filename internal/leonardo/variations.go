package leonardo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// VariationKind selects the variation endpoint
type VariationKind string

const (
	VariationUpscale      VariationKind = "upscale"
	VariationUnzoom       VariationKind = "unzoom"
	VariationNoBackground VariationKind = "no_background"
)

var (
	// ErrInvalidVariationKind is returned for kinds the API does not offer
	ErrInvalidVariationKind = errors.New("invalid variation kind")

	// ErrNoVariationID is returned when the API accepts a variation but
	// the response carries no job id to poll
	ErrNoVariationID = errors.New("no variation id returned")
)

// Valid reports whether the kind maps to a real endpoint
func (k VariationKind) Valid() bool {
	switch k {
	case VariationUpscale, VariationUnzoom, VariationNoBackground:
		return true
	}
	return false
}

// CreateVariation submits a variation job for an existing image.
// isVariation must be true when imageID came from a previous variation
// instead of a generation.
func (c *Client) CreateVariation(ctx context.Context, imageID string, kind VariationKind, isVariation bool) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVariationKind, kind)
	}

	payload := map[string]any{
		"id":          imageID,
		"isVariation": isVariation,
	}

	// Each kind wraps the job id in a differently named object
	var out struct {
		SDUpscaleJob    *variationJob `json:"sdUpscaleJob"`
		SDUnzoomJob     *variationJob `json:"sdUnzoomJob"`
		NoBackgroundJob *variationJob `json:"noBackgroundJob"`
	}

	path := "/variations/" + string(kind)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return "", fmt.Errorf("create %s variation: %w", kind, err)
	}

	var job *variationJob
	switch kind {
	case VariationUpscale:
		job = out.SDUpscaleJob
	case VariationUnzoom:
		job = out.SDUnzoomJob
	case VariationNoBackground:
		job = out.NoBackgroundJob
	}

	if job == nil || job.ID == "" {
		return "", ErrNoVariationID
	}

	return job.ID, nil
}

type variationJob struct {
	ID string `json:"id"`
}

// GetVariation fetches the current state of a variation job
func (c *Client) GetVariation(ctx context.Context, variationID string, kind VariationKind) (*Variation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVariationKind, kind)
	}

	var v Variation
	path := "/variations/" + string(kind) + "/" + url.PathEscape(variationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
