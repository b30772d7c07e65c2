package leonardo

import (
	"context"
	"log/slog"
	"net/http"
)

// ListPlatformModels fetches the platform model catalog
func (c *Client) ListPlatformModels(ctx context.Context) ([]Model, error) {
	var out struct {
		PlatformModels []Model `json:"platformModels"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/platformModels", nil, &out); err != nil {
		return nil, err
	}
	return out.PlatformModels, nil
}

// ListCustomModels fetches the user's own trained models
func (c *Client) ListCustomModels(ctx context.Context) ([]CustomModel, error) {
	var out struct {
		Loras []CustomModel `json:"loras"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/me/models", nil, &out); err != nil {
		return nil, err
	}
	return out.Loras, nil
}

// ListModels returns the platform catalog, falling back to the legacy
// models endpoint when the newer one is unavailable.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	models, err := c.ListPlatformModels(ctx)
	if err == nil {
		return models, nil
	}

	c.logger.Warn("platform models endpoint failed, trying legacy endpoint",
		slog.String("error", err.Error()),
	)

	var out struct {
		Models []Model `json:"models"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}
