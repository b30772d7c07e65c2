package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/config"
	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
	"github.com/connorodea/leonardo-cli/internal/poller"
)

// generationFlags is the flag surface shared by the image commands
type generationFlags struct {
	modelID        string
	num            int
	width          int
	height         int
	outputDir      string
	timeoutSecs    int
	negativePrompt string
	guidanceScale  float64
	presetStyle    string
	alchemy        bool
}

func addGenerationFlags(cmd *cobra.Command, flags *generationFlags) {
	cmd.Flags().StringVar(&flags.modelID, "model-id", "", "Model ID to use (default: first platform model)")
	cmd.Flags().IntVar(&flags.num, "num", 1, "Number of images to generate")
	cmd.Flags().IntVar(&flags.width, "width", 512, "Width of the generated images")
	cmd.Flags().IntVar(&flags.height, "height", 512, "Height of the generated images")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "./leonardo-output", "Directory to save images")
	cmd.Flags().IntVar(&flags.timeoutSecs, "timeout", 120, "Seconds to wait for the job to finish")
	cmd.Flags().StringVar(&flags.negativePrompt, "negative-prompt", "", "What the images must not contain")
	cmd.Flags().Float64Var(&flags.guidanceScale, "guidance-scale", 0, "Guidance scale (API default 7.0)")
	cmd.Flags().StringVar(&flags.presetStyle, "preset-style", "", "Preset style (e.g. CINEMATIC, PHOTOGRAPHIC)")
	cmd.Flags().BoolVar(&flags.alchemy, "alchemy", false, "Enable the Alchemy quality pipeline")
}

// applyConfigDefaults overrides flags the user did not set with the
// values from the config file
func (f *generationFlags) applyConfigDefaults(cmd *cobra.Command, d config.DefaultsConfig) {
	if !cmd.Flags().Changed("num") {
		f.num = d.NumImages
	}
	if !cmd.Flags().Changed("width") {
		f.width = d.Width
	}
	if !cmd.Flags().Changed("height") {
		f.height = d.Height
	}
	if !cmd.Flags().Changed("output-dir") {
		f.outputDir = d.OutputDir
	}
	if !cmd.Flags().Changed("timeout") {
		f.timeoutSecs = d.TimeoutSeconds
	}
}

func (f *generationFlags) validate() error {
	if f.width < config.MinImageSize || f.width > config.MaxImageSize {
		return fmt.Errorf("invalid width: %d (must be between %d and %d)", f.width, config.MinImageSize, config.MaxImageSize)
	}
	if f.height < config.MinImageSize || f.height > config.MaxImageSize {
		return fmt.Errorf("invalid height: %d (must be between %d and %d)", f.height, config.MinImageSize, config.MaxImageSize)
	}
	if f.num < 1 || f.num > config.MaxNumImages {
		return fmt.Errorf("invalid number of images: %d (must be between 1 and %d)", f.num, config.MaxNumImages)
	}
	if f.timeoutSecs <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

func (f *generationFlags) timeout() time.Duration {
	return time.Duration(f.timeoutSecs) * time.Second
}

// phoenixContrast normalizes a requested contrast for the Phoenix model
// and phrases any adjustment for the user
func phoenixContrast(requested float64, alchemy bool) (float64, []string) {
	original := requested
	if original == 0 {
		original = leonardo.DefaultPhoenixContrast
	}

	value, adjusted := leonardo.NormalizePhoenixContrast(requested, alchemy)
	if !adjusted {
		return value, nil
	}

	if alchemy && original < leonardo.MinAlchemyContrast {
		return value, []string{fmt.Sprintf(
			"When using Phoenix with Alchemy, contrast must be %g or higher. Setting to %g.",
			leonardo.MinAlchemyContrast, leonardo.MinAlchemyContrast,
		)}
	}

	return value, []string{fmt.Sprintf(
		"Contrast value %g is not valid for Phoenix. Using nearest valid value: %g",
		original, value,
	)}
}

// confirm asks a yes/no question on stdin, defaulting to no
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.stdout, "%s [y/N]: ", question)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *App) pollOptions(timeout time.Duration, description string) poller.Options {
	return poller.Options{
		Timeout:      timeout,
		Interval:     a.cfg.Defaults.PollInterval(),
		ErrorBackoff: a.cfg.Defaults.ErrorBackoff(),
		Description:  description,
		Progress:     progressPrinter(a.stdout),
		Logger:       a.log.Logger,
	}
}

// resolveModelID picks the model to generate with: Phoenix when asked
// for, otherwise the explicit ID, otherwise the first platform model
func (a *App) resolveModelID(ctx context.Context, client *leonardo.Client, modelID string, phoenix bool) (string, error) {
	if phoenix {
		fmt.Fprintf(a.stdout, "Using Phoenix model (ID: %s)\n", leonardo.PhoenixModelID)
		return leonardo.PhoenixModelID, nil
	}
	if modelID != "" {
		return modelID, nil
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", errors.New("no models available")
	}

	fmt.Fprintf(a.stdout, "Using model: %s (%s)\n", models[0].Name, models[0].ID)
	return models[0].ID, nil
}

// estimateAndConfirm prints the estimated token cost and asks whether
// to proceed. An estimation failure falls back to a plain confirmation.
func (a *App) estimateAndConfirm(ctx context.Context, client *leonardo.Client, params leonardo.PricingParams) bool {
	cost, err := client.CalculatePricing(ctx, params)
	if err != nil {
		fmt.Fprintf(a.stdout, "Could not estimate cost: %v\n", err)
		return a.confirm("Continue with generation anyway?")
	}

	fmt.Fprintf(a.stdout, "Estimated cost: %g credits\n", cost)
	return a.confirm("Do you want to proceed with the generation?")
}

// generationJob describes one generation to carry end to end
type generationJob struct {
	request    *leonardo.GenerationRequest
	prefix     string // file name prefix, e.g. "img2img_"
	outputDir  string
	timeout    time.Duration
	noDownload bool
}

// runGeneration submits a generation, polls it to completion, downloads
// the images and records the outcome in the history ledger
func (a *App) runGeneration(ctx context.Context, client *leonardo.Client, job generationJob) error {
	generationID, err := client.CreateGeneration(ctx, job.request)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Generation started with ID: %s\n", generationID)

	a.recordJob(ctx, &history.Entry{
		ID:      generationID,
		Kind:    history.KindGeneration,
		Prompt:  job.request.Prompt,
		ModelID: job.request.ModelID,
	})

	generation, err := client.WaitForGeneration(ctx, generationID, a.pollOptions(job.timeout, "generation"))
	clearProgress(a.stdout)
	if err != nil {
		a.finishJob(ctx, generationID, history.StatusFailed, nil, err.Error())
		return err
	}

	images := generation.Generations
	if len(images) == 0 {
		fmt.Fprintln(a.stdout, "No images were generated")
		a.finishJob(ctx, generationID, history.StatusComplete, nil, "")
		return nil
	}
	fmt.Fprintf(a.stdout, "Successfully generated %d image(s)\n", len(images))

	if job.noDownload {
		for i, image := range images {
			fmt.Fprintf(a.stdout, "Image %d URL: %s\n", i+1, image.URL)
			fmt.Fprintf(a.stdout, "Image %d ID: %s\n", i+1, image.ID)
		}
		a.finishJob(ctx, generationID, history.StatusComplete, nil, "")
		return nil
	}

	urls := make([]string, 0, len(images))
	ids := make([]string, 0, len(images))
	for i, image := range images {
		if image.URL == "" {
			fmt.Fprintf(a.stdout, "Image %d has no URL\n", i+1)
			continue
		}
		urls = append(urls, image.URL)
		ids = append(ids, image.ID)
	}

	paths, err := a.fetcher().SaveImages(ctx, job.outputDir, job.prefix+generationID, urls)
	if err != nil {
		a.finishJob(ctx, generationID, history.StatusComplete, nil, err.Error())
		return fmt.Errorf("generation %s finished but download failed: %w", generationID, err)
	}

	for i, path := range paths {
		fmt.Fprintf(a.stdout, "Image %d saved to: %s\n", i+1, path)
		fmt.Fprintf(a.stdout, "Image ID: %s (use this ID for video or variations)\n", ids[i])
	}

	a.finishJob(ctx, generationID, history.StatusComplete, paths, "")
	return nil
}

func newGenerateCmd(app *App) *cobra.Command {
	var (
		flags            generationFlags
		photoreal        bool
		photorealVersion string
		phoenix          bool
		contrast         float64
		estimateCost     bool
		noDownload       bool
	)

	cmd := &cobra.Command{
		Use:   "generate PROMPT...",
		Short: "Generate images from a text prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prompt := strings.Join(args, " ")

			flags.applyConfigDefaults(cmd, app.cfg.Defaults)
			if err := flags.validate(); err != nil {
				return err
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			modelID, err := app.resolveModelID(ctx, client, flags.modelID, phoenix)
			if err != nil {
				return err
			}

			request := &leonardo.GenerationRequest{
				Prompt:           prompt,
				Width:            flags.width,
				Height:           flags.height,
				NumImages:        flags.num,
				ModelID:          modelID,
				NegativePrompt:   flags.negativePrompt,
				GuidanceScale:    flags.guidanceScale,
				PresetStyle:      flags.presetStyle,
				Alchemy:          flags.alchemy,
				PhotoReal:        photoreal,
				PhotoRealVersion: photorealVersion,
			}

			if phoenix {
				request.IsPhoenix = true
				value, warnings := phoenixContrast(contrast, flags.alchemy)
				for _, warning := range warnings {
					fmt.Fprintln(app.stdout, warning)
				}
				request.Contrast = value
			}

			if estimateCost {
				params := leonardo.PricingParams{
					ImageHeight:    flags.height,
					ImageWidth:     flags.width,
					NumImages:      flags.num,
					InferenceSteps: 30,
					AlchemyMode:    flags.alchemy,
					IsPhoenix:      phoenix,
				}
				if !app.estimateAndConfirm(ctx, client, params) {
					fmt.Fprintln(app.stdout, "Generation cancelled")
					return nil
				}
			}

			fmt.Fprintf(app.stdout, "Generating %d image(s)...\n", flags.num)

			return app.runGeneration(ctx, client, generationJob{
				request:    request,
				outputDir:  flags.outputDir,
				timeout:    flags.timeout(),
				noDownload: noDownload,
			})
		},
	}

	addGenerationFlags(cmd, &flags)
	cmd.Flags().BoolVar(&photoreal, "photoreal", false, "Enable PhotoReal mode")
	cmd.Flags().StringVar(&photorealVersion, "photoreal-version", "", "PhotoReal version (e.g. v2)")
	cmd.Flags().BoolVar(&phoenix, "phoenix", false, "Use the Phoenix model")
	cmd.Flags().Float64Var(&contrast, "contrast", 0, "Contrast for the Phoenix model (1.0-4.5)")
	cmd.Flags().BoolVar(&estimateCost, "estimate-cost", false, "Estimate token cost and confirm before generating")
	cmd.Flags().BoolVar(&noDownload, "no-download", false, "Print image URLs instead of downloading")

	return cmd
}
