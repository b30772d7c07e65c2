package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

// batchResult is the outcome of one prompt in a batch run
type batchResult struct {
	prompt       string
	generationID string
	paths        []string
	err          error
}

// batchPrompt describes one prompt to carry end to end
type batchPrompt struct {
	index     int
	total     int
	prompt    string
	modelID   string
	width     int
	height    int
	alchemy   bool
	batchID   string
	outputDir string
	timeout   time.Duration
}

func newBatchCmd(app *App) *cobra.Command {
	var (
		file        string
		modelID     string
		width       int
		height      int
		alchemy     bool
		outputDir   string
		timeoutSecs int
		concurrency int
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate images for multiple prompts from a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if file == "" {
				return errors.New("prompt file is required")
			}

			prompts, err := readPrompts(file)
			if err != nil {
				return err
			}
			if len(prompts) == 0 {
				return fmt.Errorf("no prompts found in %s", file)
			}

			if !cmd.Flags().Changed("width") {
				width = app.cfg.Defaults.Width
			}
			if !cmd.Flags().Changed("height") {
				height = app.cfg.Defaults.Height
			}
			if !cmd.Flags().Changed("timeout") {
				timeoutSecs = app.cfg.Defaults.TimeoutSeconds
			}
			if concurrency < 1 {
				concurrency = 1
			}

			fmt.Fprintf(app.stdout, "Found %d prompts to process\n", len(prompts))

			fmt.Fprintf(app.stdout, "%-6s %s\n", "INDEX", "PROMPT")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 70))
			for i, prompt := range prompts {
				if i == 5 {
					fmt.Fprintf(app.stdout, "%-6s ... and %d more prompts\n", "...", len(prompts)-5)
					break
				}
				fmt.Fprintf(app.stdout, "%-6d %s\n", i+1, truncate(prompt, 60))
			}

			if !yes && !app.confirm(fmt.Sprintf("Process all %d prompts?", len(prompts))) {
				fmt.Fprintln(app.stdout, "Batch generation cancelled")
				return nil
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			resolvedModel, err := app.resolveModelID(ctx, client, modelID, false)
			if err != nil {
				return err
			}

			batchID := uuid.NewString()
			fmt.Fprintf(app.stdout, "Batch ID: %s\n", batchID)

			timeout := time.Duration(timeoutSecs) * time.Second
			results := make([]batchResult, len(prompts))

			group, groupCtx := errgroup.WithContext(ctx)
			group.SetLimit(concurrency)

			for i, prompt := range prompts {
				i, prompt := i, prompt // per-iteration copies: module targets pre-1.22 loop semantics
				group.Go(func() error {
					results[i] = app.runBatchPrompt(groupCtx, client, batchPrompt{
						index:     i,
						total:     len(prompts),
						prompt:    prompt,
						modelID:   resolvedModel,
						width:     width,
						height:    height,
						alchemy:   alchemy,
						batchID:   batchID,
						outputDir: outputDir,
						timeout:   timeout,
					})
					// a failed prompt lands in its result row, it never
					// aborts the rest of the batch
					return nil
				})
			}

			_ = group.Wait()

			if ctx.Err() != nil {
				return fmt.Errorf("batch canceled: %w", ctx.Err())
			}

			succeeded := 0
			for _, result := range results {
				if result.err == nil {
					succeeded++
				}
			}

			fmt.Fprintf(app.stdout, "\nBatch complete: %d succeeded, %d failed\n", succeeded, len(results)-succeeded)
			fmt.Fprintf(app.stdout, "%-6s %-8s %-38s %s\n", "INDEX", "STATUS", "GENERATION_ID", "PROMPT")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 110))
			for i, result := range results {
				status := "ok"
				if result.err != nil {
					status = "failed"
				}
				id := result.generationID
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(app.stdout, "%-6d %-8s %-38s %s\n", i+1, status, id, truncate(result.prompt, 50))
				if result.err != nil {
					fmt.Fprintf(app.stdout, "       error: %v\n", result.err)
				}
			}

			if succeeded > 0 {
				files := 0
				for _, result := range results {
					files += len(result.paths)
				}
				fmt.Fprintf(app.stdout, "Saved %d file(s) to: %s\n", files, outputDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "File containing prompts, one per line")
	cmd.Flags().StringVar(&modelID, "model-id", "", "Model ID to use for all generations")
	cmd.Flags().IntVar(&width, "width", 512, "Image width")
	cmd.Flags().IntVar(&height, "height", 512, "Image height")
	cmd.Flags().BoolVar(&alchemy, "alchemy", false, "Enable Alchemy")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./leonardo-batch-output", "Directory to save images")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "Seconds to wait for each generation")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "How many generations to run at once")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

// readPrompts loads one prompt per line, skipping blanks
func readPrompts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var prompts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			prompts = append(prompts, line)
		}
	}
	return prompts, nil
}

// runBatchPrompt carries one prompt through submit, wait and download.
// Progress redraw is disabled: concurrent waits cannot share the one
// status line.
func (a *App) runBatchPrompt(ctx context.Context, client *leonardo.Client, job batchPrompt) batchResult {
	result := batchResult{prompt: job.prompt}

	fmt.Fprintf(a.stdout, "Processing prompt %d/%d: %s\n", job.index+1, job.total, truncate(job.prompt, 50))

	request := &leonardo.GenerationRequest{
		Prompt:    job.prompt,
		Width:     job.width,
		Height:    job.height,
		NumImages: 1,
		ModelID:   job.modelID,
		Alchemy:   job.alchemy,
	}

	generationID, err := client.CreateGeneration(ctx, request)
	if err != nil {
		result.err = err
		return result
	}
	result.generationID = generationID

	a.recordJob(ctx, &history.Entry{
		ID:      generationID,
		Kind:    history.KindGeneration,
		Prompt:  job.prompt,
		ModelID: job.modelID,
		BatchID: job.batchID,
	})

	opts := a.pollOptions(job.timeout, fmt.Sprintf("prompt %d", job.index+1))
	opts.Progress = nil

	generation, err := client.WaitForGeneration(ctx, generationID, opts)
	if err != nil {
		a.finishJob(ctx, generationID, history.StatusFailed, nil, err.Error())
		result.err = err
		return result
	}

	urls := make([]string, 0, len(generation.Generations))
	for _, image := range generation.Generations {
		if image.URL != "" {
			urls = append(urls, image.URL)
		}
	}

	paths, err := a.fetcher().SaveImages(ctx, job.outputDir, generationID, urls)
	if err != nil {
		a.finishJob(ctx, generationID, history.StatusComplete, nil, err.Error())
		result.err = fmt.Errorf("download failed: %w", err)
		return result
	}

	result.paths = paths
	a.finishJob(ctx, generationID, history.StatusComplete, paths, "")
	fmt.Fprintf(a.stdout, "Prompt %d/%d complete\n", job.index+1, job.total)
	return result
}
