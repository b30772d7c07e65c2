package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/poller"
)

func newDownloadCmd(app *App) *cobra.Command {
	var (
		generationID string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download images from a completed generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if generationID == "" {
				return errors.New("generation id is required")
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			generation, err := client.GetGeneration(ctx, generationID)
			if err != nil {
				return err
			}

			status := generation.Status
			if status == "" {
				status = "UNKNOWN"
			}
			fmt.Fprintf(app.stdout, "Generation Status: %s\n", status)

			if poller.State(status) != poller.StateComplete {
				fmt.Fprintf(app.stdout, "Generation is not complete (status: %s)\n", status)
				return nil
			}

			if len(generation.Generations) == 0 {
				fmt.Fprintln(app.stdout, "No images found in generation")
				return nil
			}

			urls := make([]string, 0, len(generation.Generations))
			for i, image := range generation.Generations {
				if image.URL == "" {
					fmt.Fprintf(app.stdout, "Image %d has no URL\n", i+1)
					continue
				}
				urls = append(urls, image.URL)
			}

			fmt.Fprintf(app.stdout, "Downloading %d image(s)...\n", len(urls))

			paths, err := app.fetcher().SaveImages(ctx, outputDir, generationID, urls)
			if err != nil {
				return err
			}

			for i, path := range paths {
				fmt.Fprintf(app.stdout, "Image %d saved: %s\n", i+1, path)
			}
			fmt.Fprintf(app.stdout, "Download complete. Images saved to %s\n", outputDir)

			return nil
		},
	}

	cmd.Flags().StringVar(&generationID, "generation-id", "", "Generation ID to download")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./leonardo-downloads", "Directory to save images")

	return cmd
}
