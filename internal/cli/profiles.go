package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/config"
)

func newProfilesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := app.cfg.ProfileNames()
			if len(names) == 0 {
				fmt.Fprintln(app.stdout, "No profiles configured. Run 'leonardo configure' to create one.")
				return nil
			}

			active := app.cfg.ActiveName()

			fmt.Fprintf(app.stdout, "%-20s %-25s %s\n", "PROFILE", "API_KEY", "ACTIVE")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 55))
			for _, name := range names {
				marker := ""
				if name == active {
					marker = "*"
				}
				fmt.Fprintf(app.stdout, "%-20s %-25s %s\n", name, maskAPIKey(app.cfg.Profiles[name].APIKey), marker)
			}
			return nil
		},
	}
}

func newUseProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile NAME",
		Short: "Set the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := app.cfg.UseProfile(name); err != nil {
				if errors.Is(err, config.ErrProfileNotFound) {
					if names := app.cfg.ProfileNames(); len(names) > 0 {
						fmt.Fprintln(app.stdout, "Available profiles:")
						for _, p := range names {
							fmt.Fprintf(app.stdout, "  - %s\n", p)
						}
					}
				}
				return err
			}

			if err := app.cfg.Save(app.cfgPath); err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Now using profile: %s\n", name)
			return nil
		},
	}
}

func newDeleteProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-profile NAME",
		Short: "Delete a configuration profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := app.cfg.DeleteProfile(name); err != nil {
				return err
			}

			if err := app.cfg.Save(app.cfgPath); err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Profile %q deleted\n", name)
			if app.cfg.ActiveProfile != "" {
				fmt.Fprintf(app.stdout, "Active profile is now: %s\n", app.cfg.ActiveProfile)
			}
			return nil
		},
	}
}
