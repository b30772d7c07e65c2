// Package download fetches finished artifacts over HTTP and writes
// them under the output directory using the job ID based naming
// scheme shared with the history ledger.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultParallel = 4
	defaultTimeout  = 60 * time.Second
)

// Fetcher downloads artifact URLs to local files
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
	parallel   int
}

// NewFetcher creates a fetcher with sane timeouts
func NewFetcher(logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		parallel:   defaultParallel,
	}
}

// ImageName returns the file name for image index of a finished job,
// counting from zero
func ImageName(baseName string, index int) string {
	return baseName + "_" + strconv.Itoa(index) + ".png"
}

// VideoName returns the file name for a finished motion job
func VideoName(id string) string {
	return id + ".mp4"
}

// VariationName returns the file name for a finished variation job
func VariationName(id, kind string) string {
	return id + "_" + kind + ".png"
}

// Fetch downloads one URL into dest, creating parent directories as
// needed. A failed write removes the partial file.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %s", resp.Status)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	f.logger.Debug("Artifact downloaded",
		slog.String("url", url),
		slog.String("dest", dest),
	)

	return nil
}

// SaveImages downloads all image URLs into outputDir, naming files
// {baseName}_{index}.png. Returned paths follow input order.
func (f *Fetcher) SaveImages(ctx context.Context, outputDir, baseName string, urls []string) ([]string, error) {
	paths := make([]string, len(urls))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.parallel)

	for i, url := range urls {
		i, url := i, url // per-iteration copies: module targets pre-1.22 loop semantics
		paths[i] = filepath.Join(outputDir, ImageName(baseName, i))
		group.Go(func() error {
			return f.Fetch(ctx, url, paths[i])
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

// SaveVideo downloads a motion artifact into outputDir as {id}.mp4
func (f *Fetcher) SaveVideo(ctx context.Context, outputDir, id, url string) (string, error) {
	dest := filepath.Join(outputDir, VideoName(id))
	if err := f.Fetch(ctx, url, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// SaveVariation downloads a variation artifact as {id}_{kind}.png
func (f *Fetcher) SaveVariation(ctx context.Context, outputDir, id, kind, url string) (string, error) {
	dest := filepath.Join(outputDir, VariationName(id, kind))
	if err := f.Fetch(ctx, url, dest); err != nil {
		return "", err
	}
	return dest, nil
}
