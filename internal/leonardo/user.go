package leonardo

import (
	"context"
	"net/http"
)

// GetUserInfo fetches the authenticated user and their subscription
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
