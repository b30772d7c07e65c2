package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func newConfigureCmd(app *App) *cobra.Command {
	var (
		apiKey  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store an API key under a profile and verify it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				fmt.Fprint(app.stdout, "Enter your Leonardo AI API key: ")
				line, err := bufio.NewReader(app.stdin).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read api key: %w", err)
				}
				apiKey = strings.TrimSpace(line)
			}
			if apiKey == "" {
				return errors.New("no api key provided")
			}

			app.cfg.SetProfile(profile, apiKey)
			if err := app.cfg.Save(app.cfgPath); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Configuration saved under profile %q\n", profile)

			client, err := leonardo.New(&leonardo.Config{
				APIKey:  apiKey,
				BaseURL: app.cfg.Defaults.APIBaseURL,
			}, app.log.Logger)
			if err != nil {
				return err
			}

			info, err := client.GetUserInfo(cmd.Context())
			if err != nil {
				// the key is stored either way, so verification only warns
				app.log.Warn("Could not verify API key",
					slog.String("error", err.Error()),
				)
				return nil
			}

			fmt.Fprintln(app.stdout, "API key verified successfully")
			fmt.Fprintf(app.stdout, "Logged in as: %s\n", info.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Leonardo AI API key (prompted for when omitted)")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to store the key under")

	return cmd
}
