package leonardo

import (
	"context"

	"github.com/connorodea/leonardo-cli/internal/poller"
)

// WaitForGeneration polls a generation until it reaches a terminal
// state and returns the completed payload. Failure, timeout and
// cancellation surface as poller errors.
func (c *Client) WaitForGeneration(ctx context.Context, generationID string, opts poller.Options) (*Generation, error) {
	if opts.Description == "" {
		opts.Description = "generation"
	}

	var last *Generation
	fetch := func(ctx context.Context, id string) (poller.Snapshot, error) {
		gen, err := c.GetGeneration(ctx, id)
		if err != nil {
			return poller.Snapshot{}, err
		}
		last = gen
		return poller.Snapshot{State: poller.State(gen.Status), Detail: gen.Error}, nil
	}

	if err := poller.Wait(ctx, generationID, fetch, opts); err != nil {
		return nil, err
	}
	return last, nil
}

// WaitForMotionGeneration polls a motion video job until it reaches a
// terminal state and returns the completed payload.
func (c *Client) WaitForMotionGeneration(ctx context.Context, generationID string, opts poller.Options) (*MotionGeneration, error) {
	if opts.Description == "" {
		opts.Description = "video generation"
	}

	var last *MotionGeneration
	fetch := func(ctx context.Context, id string) (poller.Snapshot, error) {
		gen, err := c.GetMotionGeneration(ctx, id)
		if err != nil {
			return poller.Snapshot{}, err
		}
		last = gen
		return poller.Snapshot{State: poller.State(gen.Status), Detail: gen.Error}, nil
	}

	if err := poller.Wait(ctx, generationID, fetch, opts); err != nil {
		return nil, err
	}
	return last, nil
}

// WaitForVariation polls a variation job until it reaches a terminal
// state and returns the completed payload.
func (c *Client) WaitForVariation(ctx context.Context, variationID string, kind VariationKind, opts poller.Options) (*Variation, error) {
	if opts.Description == "" {
		opts.Description = string(kind)
	}

	var last *Variation
	fetch := func(ctx context.Context, id string) (poller.Snapshot, error) {
		v, err := c.GetVariation(ctx, id, kind)
		if err != nil {
			return poller.Snapshot{}, err
		}
		last = v
		return poller.Snapshot{State: poller.State(v.Status), Detail: v.Error}, nil
	}

	if err := poller.Wait(ctx, variationID, fetch, opts); err != nil {
		return nil, err
	}
	return last, nil
}
