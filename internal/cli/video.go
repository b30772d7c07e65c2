package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/history"
)

func newVideoCmd(app *App) *cobra.Command {
	var (
		imageID        string
		imagePath      string
		motionStrength int
		outputDir      string
		timeoutSecs    int
	)

	cmd := &cobra.Command{
		Use:   "video",
		Short: "Generate a video from an image with the Motion feature",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if imageID == "" && imagePath == "" {
				return errors.New("either --image-id or --image-path must be provided")
			}
			if !cmd.Flags().Changed("timeout") {
				timeoutSecs = app.cfg.Defaults.MotionTimeoutSeconds
			}
			if !cmd.Flags().Changed("output-dir") {
				outputDir = app.cfg.Defaults.OutputDir
			}
			if timeoutSecs <= 0 {
				return errors.New("timeout must be greater than 0")
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			if imageID != "" && imagePath != "" {
				fmt.Fprintln(app.stdout, "Both image ID and path provided. Using image ID.")
			}

			// An uploaded file is an init image, a generated image is not
			isInitImage := false
			if imageID == "" {
				fmt.Fprintf(app.stdout, "Uploading image: %s\n", imagePath)
				uploaded, err := client.UploadInitImage(ctx, imagePath)
				if err != nil {
					return fmt.Errorf("failed to upload image: %w", err)
				}
				imageID = uploaded.ID
				isInitImage = true
				fmt.Fprintf(app.stdout, "Image uploaded successfully with ID: %s\n", imageID)
			}

			fmt.Fprintf(app.stdout, "Creating video from image with motion strength: %d\n", motionStrength)
			generationID, err := client.CreateMotionGeneration(ctx, imageID, motionStrength, isInitImage)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Video generation started with ID: %s\n", generationID)

			app.recordJob(ctx, &history.Entry{
				ID:   generationID,
				Kind: history.KindMotion,
			})

			timeout := time.Duration(timeoutSecs) * time.Second
			generation, err := client.WaitForMotionGeneration(ctx, generationID, app.pollOptions(timeout, "video generation"))
			clearProgress(app.stdout)
			if err != nil {
				app.finishJob(ctx, generationID, history.StatusFailed, nil, err.Error())
				return err
			}

			if generation.VideoURL == "" {
				fmt.Fprintln(app.stdout, "No video URL returned in the response")
				app.finishJob(ctx, generationID, history.StatusComplete, nil, "")
				return nil
			}

			fmt.Fprintln(app.stdout, "Video generated successfully")
			fmt.Fprintf(app.stdout, "Video URL: %s\n", generation.VideoURL)

			fmt.Fprintln(app.stdout, "Downloading video...")
			path, err := app.fetcher().SaveVideo(ctx, outputDir, generationID, generation.VideoURL)
			if err != nil {
				app.finishJob(ctx, generationID, history.StatusComplete, nil, err.Error())
				return fmt.Errorf("video %s finished but download failed: %w", generationID, err)
			}
			fmt.Fprintf(app.stdout, "Video saved to: %s\n", path)

			app.finishJob(ctx, generationID, history.StatusComplete, []string{path}, "")
			return nil
		},
	}

	cmd.Flags().StringVar(&imageID, "image-id", "", "ID of a previously generated image")
	cmd.Flags().StringVar(&imagePath, "image-path", "", "Path to an image file to upload")
	cmd.Flags().IntVar(&motionStrength, "motion-strength", 3, "Strength of the motion effect (1-5)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./leonardo-output", "Directory to save the video")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 300, "Seconds to wait for the video to finish")

	return cmd
}
