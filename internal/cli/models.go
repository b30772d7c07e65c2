package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available generation models",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(app.stdout, "Platform Models")
			renderModels(app.stdout, models)

			if !all {
				return nil
			}

			custom, err := client.ListCustomModels(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, "Custom Models")
			renderCustomModels(app.stdout, custom)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include custom models trained by the account")

	return cmd
}
