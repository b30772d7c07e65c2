package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func newVariationCmd(app *App) *cobra.Command {
	var (
		kind        string
		isVariation bool
		outputDir   string
		timeoutSecs int
	)

	cmd := &cobra.Command{
		Use:   "variation IMAGE_ID",
		Short: "Create a variation of an image (upscale, unzoom, remove background)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			imageID := args[0]

			variationKind := leonardo.VariationKind(kind)
			if !variationKind.Valid() {
				return fmt.Errorf("invalid variation type: %q (must be upscale, unzoom or no_background)", kind)
			}

			if !cmd.Flags().Changed("timeout") {
				timeoutSecs = app.cfg.Defaults.TimeoutSeconds
			}
			if !cmd.Flags().Changed("output-dir") {
				outputDir = app.cfg.Defaults.OutputDir
			}
			if timeoutSecs <= 0 {
				return fmt.Errorf("timeout must be greater than 0")
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Creating %s variation of image %s...\n", kind, imageID)
			variationID, err := client.CreateVariation(ctx, imageID, variationKind, isVariation)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Variation started with ID: %s\n", variationID)

			app.recordJob(ctx, &history.Entry{
				ID:   variationID,
				Kind: history.KindVariation,
			})

			timeout := time.Duration(timeoutSecs) * time.Second
			variation, err := client.WaitForVariation(ctx, variationID, variationKind, app.pollOptions(timeout, kind+" variation"))
			clearProgress(app.stdout)
			if err != nil {
				app.finishJob(ctx, variationID, history.StatusFailed, nil, err.Error())
				return err
			}

			imageURL := variation.ResultURL()
			if imageURL == "" {
				fmt.Fprintln(app.stdout, "No image URL found in the response")
				app.finishJob(ctx, variationID, history.StatusComplete, nil, "")
				return nil
			}

			fmt.Fprintln(app.stdout, "Variation completed successfully")
			fmt.Fprintf(app.stdout, "Image URL: %s\n", imageURL)

			fmt.Fprintln(app.stdout, "Downloading the result...")
			path, err := app.fetcher().SaveVariation(ctx, outputDir, variationID, kind, imageURL)
			if err != nil {
				app.finishJob(ctx, variationID, history.StatusComplete, nil, err.Error())
				return fmt.Errorf("variation %s finished but download failed: %w", variationID, err)
			}
			fmt.Fprintf(app.stdout, "Result saved to: %s\n", path)

			app.finishJob(ctx, variationID, history.StatusComplete, []string{path}, "")
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "upscale", "Variation type (upscale, unzoom, no_background)")
	cmd.Flags().BoolVar(&isVariation, "is-variation", false, "Set when IMAGE_ID came from a previous variation")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./leonardo-output", "Directory to save the result")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "Seconds to wait for the variation to finish")

	return cmd
}
