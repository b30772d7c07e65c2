package leonardo

import (
	"context"
	"fmt"
	"net/http"
)

// CalculatePricing returns the token cost of an image generation with
// the given parameters, without running it.
func (c *Client) CalculatePricing(ctx context.Context, params PricingParams) (float64, error) {
	payload := map[string]any{
		"service": "IMAGE_GENERATION",
		"serviceParams": map[string]any{
			"IMAGE_GENERATION": params,
		},
	}

	var out struct {
		Cost float64 `json:"cost"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/pricing-calculator", payload, &out); err != nil {
		return 0, fmt.Errorf("calculate pricing: %w", err)
	}

	return out.Cost, nil
}
