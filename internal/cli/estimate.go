package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func newEstimateCmd(app *App) *cobra.Command {
	var (
		width   int
		height  int
		num     int
		alchemy bool
		phoenix bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a generation without generating",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = app.cfg.Defaults.Width
			}
			if !cmd.Flags().Changed("height") {
				height = app.cfg.Defaults.Height
			}
			if !cmd.Flags().Changed("num") {
				num = app.cfg.Defaults.NumImages
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			params := leonardo.PricingParams{
				ImageHeight:    height,
				ImageWidth:     width,
				NumImages:      num,
				InferenceSteps: 30,
				AlchemyMode:    alchemy,
				IsPhoenix:      phoenix,
			}

			cost, err := client.CalculatePricing(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Estimated cost: %g credits\n", cost)
			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, "Cost Estimate Details")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 40))
			fmt.Fprintf(app.stdout, "%-20s %dx%d\n", "Image Size", width, height)
			fmt.Fprintf(app.stdout, "%-20s %d\n", "Number of Images", num)
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Alchemy Enabled", yesNo(alchemy))
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Phoenix Model", yesNo(phoenix))
			fmt.Fprintf(app.stdout, "%-20s %g credits\n", "Total Cost", cost)

			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 512, "Image width")
	cmd.Flags().IntVar(&height, "height", 512, "Image height")
	cmd.Flags().IntVar(&num, "num", 1, "Number of images")
	cmd.Flags().BoolVar(&alchemy, "alchemy", false, "Enable Alchemy")
	cmd.Flags().BoolVar(&phoenix, "phoenix", false, "Use the Phoenix model")

	return cmd
}
