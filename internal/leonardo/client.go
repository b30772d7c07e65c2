// Package leonardo is a client for the Leonardo.Ai REST API. It covers
// the endpoints the CLI needs: image generation, motion video, image
// variations, init-image uploads, model listing, account info and the
// pricing calculator.
package leonardo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production REST endpoint
const DefaultBaseURL = "https://cloud.leonardo.ai/api/rest/v1"

// defaultHTTPTimeout bounds a single API round-trip. It must stay well
// below the polling budget so one slow check never eats the whole wait.
const defaultHTTPTimeout = 15 * time.Second

var (
	// ErrMissingAPIKey is returned when a client is built without a key
	ErrMissingAPIKey = errors.New("api key is required")
)

// Config holds API client configuration
type Config struct {
	APIKey      string
	BaseURL     string        // defaults to DefaultBaseURL
	HTTPTimeout time.Duration // per-request timeout, defaults to 15s
}

// Client talks to the Leonardo REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new API client
func New(config *Config, logger *slog.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// doJSON performs one API round-trip. A response status >= 400 becomes
// an error carrying the response body, which is where the API reports
// what went wrong.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var requestBody []byte
	if body != nil {
		var err error
		requestBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %s: %s", resp.Status, strings.TrimSpace(string(bodyBytes)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
