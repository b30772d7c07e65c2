package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show account information for the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			info, err := client.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}

			renderUserInfo(app.stdout, info)
			return nil
		},
	}
}

func newUsageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show API token usage for the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			info, err := client.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}

			if info.Subscription == nil {
				fmt.Fprintln(app.stdout, "No subscription information available")
				return nil
			}

			renderUsage(app.stdout, info.Subscription)
			return nil
		},
	}
}
