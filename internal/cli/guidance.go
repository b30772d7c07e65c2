package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func newImageGuidanceCmd(app *App) *cobra.Command {
	var (
		flags          generationFlags
		initImagePath  string
		initImageID    string
		preprocessorID int
		initImageType  string
		strength       string
		prompt         string
	)

	cmd := &cobra.Command{
		Use:   "image-guidance",
		Short: "Generate images steered by a reference image (ControlNet)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if prompt == "" {
				return errors.New("prompt is required")
			}
			if flags.modelID == "" {
				return errors.New("model id is required")
			}
			if preprocessorID == 0 {
				return errors.New("preprocessor id is required")
			}
			if initImagePath == "" && initImageID == "" {
				return errors.New("either --init-image-path or --init-image-id must be provided")
			}

			switch initImageType {
			case "UPLOADED", "GENERATED":
			default:
				return fmt.Errorf("invalid init image type: %q (must be UPLOADED or GENERATED)", initImageType)
			}
			switch strength {
			case "Low", "Mid", "High", "Ultra", "Max":
			default:
				return fmt.Errorf("invalid strength: %q (must be Low, Mid, High, Ultra or Max)", strength)
			}

			flags.applyConfigDefaults(cmd, app.cfg.Defaults)
			flags.num = 1 // one output image per reference image
			if err := flags.validate(); err != nil {
				return err
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			if initImagePath != "" && initImageID != "" {
				fmt.Fprintln(app.stdout, "Both image path and ID provided. Using image ID.")
			}

			if initImageID == "" {
				fmt.Fprintf(app.stdout, "Uploading image: %s\n", initImagePath)
				uploaded, err := client.UploadInitImage(ctx, initImagePath)
				if err != nil {
					return fmt.Errorf("failed to upload image: %w", err)
				}
				initImageID = uploaded.ID
				fmt.Fprintf(app.stdout, "Image uploaded successfully with ID: %s\n", initImageID)
			}

			request := &leonardo.GenerationRequest{
				Prompt:      prompt,
				Width:       flags.width,
				Height:      flags.height,
				NumImages:   flags.num,
				ModelID:     flags.modelID,
				PresetStyle: flags.presetStyle,
				Alchemy:     flags.alchemy,
				Controlnets: []leonardo.Controlnet{{
					InitImageID:    initImageID,
					InitImageType:  initImageType,
					PreprocessorID: preprocessorID,
					StrengthType:   strength,
				}},
			}

			fmt.Fprintln(app.stdout, "Generating image with Image Guidance...")

			return app.runGeneration(ctx, client, generationJob{
				request:   request,
				prefix:    "guidance_",
				outputDir: flags.outputDir,
				timeout:   flags.timeout(),
			})
		},
	}

	cmd.Flags().StringVar(&initImagePath, "init-image-path", "", "Path to the reference image")
	cmd.Flags().StringVar(&initImageID, "init-image-id", "", "ID of a previously uploaded or generated reference image")
	cmd.Flags().IntVar(&preprocessorID, "preprocessor-id", 0, "ControlNet preprocessor ID (e.g. 67 for Style Reference, 133 for Character Reference)")
	cmd.Flags().StringVar(&initImageType, "init-image-type", "UPLOADED", "Reference image type (UPLOADED or GENERATED)")
	cmd.Flags().StringVar(&strength, "strength", "High", "Strength of influence (Low, Mid, High, Ultra, Max)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "The generation prompt")
	cmd.Flags().StringVar(&flags.modelID, "model-id", "", "Model ID to use")
	cmd.Flags().IntVar(&flags.width, "width", 512, "Width of the generated image")
	cmd.Flags().IntVar(&flags.height, "height", 512, "Height of the generated image")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "./leonardo-output", "Directory to save images")
	cmd.Flags().IntVar(&flags.timeoutSecs, "timeout", 120, "Seconds to wait for the job to finish")
	cmd.Flags().StringVar(&flags.presetStyle, "preset-style", "", "Preset style (e.g. CINEMATIC, PHOTOGRAPHIC)")
	cmd.Flags().BoolVar(&flags.alchemy, "alchemy", true, "Enable the Alchemy quality pipeline")

	return cmd
}
