package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/poller"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status GENERATION_ID",
		Short: "Check the status of an image generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			generation, err := client.GetGeneration(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status := generation.Status
			if status == "" {
				status = "UNKNOWN"
			}
			fmt.Fprintf(app.stdout, "Status: %s\n", status)

			if poller.State(status) == poller.StateComplete {
				fmt.Fprintf(app.stdout, "Generated %d image(s)\n", len(generation.Generations))
				for i, image := range generation.Generations {
					fmt.Fprintf(app.stdout, "Image %d URL: %s\n", i+1, image.URL)
					fmt.Fprintf(app.stdout, "Image %d ID: %s\n", i+1, image.ID)
				}
			}

			return nil
		},
	}

	return cmd
}

func newVideoStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video-status GENERATION_ID",
		Short: "Check the status of a video generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			generation, err := client.GetMotionGeneration(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status := generation.Status
			if status == "" {
				status = "UNKNOWN"
			}
			fmt.Fprintf(app.stdout, "Status: %s\n", status)

			if poller.State(status) == poller.StateComplete {
				if generation.VideoURL != "" {
					fmt.Fprintf(app.stdout, "Video URL: %s\n", generation.VideoURL)
				} else {
					fmt.Fprintln(app.stdout, "No video URL found in the response")
				}
			}

			return nil
		},
	}

	return cmd
}
