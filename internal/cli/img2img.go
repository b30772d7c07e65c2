package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func newImg2ImgCmd(app *App) *cobra.Command {
	var (
		flags        generationFlags
		initImage    string
		initPrompt   string
		initStrength float64
	)

	cmd := &cobra.Command{
		Use:   "img2img",
		Short: "Generate an image from an initial image and a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if initImage == "" {
				return errors.New("initial image path is required")
			}
			if initPrompt == "" {
				return errors.New("initial prompt is required")
			}

			flags.applyConfigDefaults(cmd, app.cfg.Defaults)
			flags.num = 1 // one output image per init image
			if err := flags.validate(); err != nil {
				return err
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			modelID, err := app.resolveModelID(ctx, client, flags.modelID, false)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Uploading initial image: %s\n", initImage)
			uploaded, err := client.UploadInitImage(ctx, initImage)
			if err != nil {
				return fmt.Errorf("failed to upload initial image: %w", err)
			}
			fmt.Fprintf(app.stdout, "Image uploaded successfully with ID: %s\n", uploaded.ID)

			strength := initStrength
			request := &leonardo.GenerationRequest{
				Prompt:         initPrompt,
				Width:          flags.width,
				Height:         flags.height,
				NumImages:      flags.num,
				ModelID:        modelID,
				NegativePrompt: flags.negativePrompt,
				GuidanceScale:  flags.guidanceScale,
				PresetStyle:    flags.presetStyle,
				Alchemy:        flags.alchemy,
				InitImageID:    uploaded.ID,
				InitStrength:   &strength,
			}

			fmt.Fprintln(app.stdout, "Generating image from initial image...")

			return app.runGeneration(ctx, client, generationJob{
				request:   request,
				prefix:    "img2img_",
				outputDir: flags.outputDir,
				timeout:   flags.timeout(),
			})
		},
	}

	cmd.Flags().StringVar(&initImage, "init-image-path", "", "Path to the initial image")
	cmd.Flags().StringVar(&initPrompt, "init-prompt", "", "The prompt for the modified image")
	cmd.Flags().Float64Var(&initStrength, "init-strength", 0.5, "Strength of the initial image influence (0.0-1.0)")
	cmd.Flags().StringVar(&flags.modelID, "model-id", "", "Model ID to use (default: first platform model)")
	cmd.Flags().IntVar(&flags.width, "width", 512, "Width of the generated image")
	cmd.Flags().IntVar(&flags.height, "height", 512, "Height of the generated image")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "./leonardo-output", "Directory to save images")
	cmd.Flags().IntVar(&flags.timeoutSecs, "timeout", 120, "Seconds to wait for the job to finish")
	cmd.Flags().StringVar(&flags.negativePrompt, "negative-prompt", "", "What the image must not contain")
	cmd.Flags().Float64Var(&flags.guidanceScale, "guidance-scale", 0, "Guidance scale (API default 7.0)")
	cmd.Flags().StringVar(&flags.presetStyle, "preset-style", "", "Preset style (e.g. CINEMATIC, PHOTOGRAPHIC)")
	cmd.Flags().BoolVar(&flags.alchemy, "alchemy", false, "Enable the Alchemy quality pipeline")

	return cmd
}
