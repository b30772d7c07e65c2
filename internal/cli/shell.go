package cli

import (
	"bufio"
	"fmt"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Launch an interactive shell for executing commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fmt.Fprintln(app.stdout, "Leonardo AI CLI Interactive Shell")
			fmt.Fprintln(app.stdout, "Type 'help' to see available commands, 'exit' to quit.")
			fmt.Fprintf(app.stdout, "Using profile: %s\n", app.activeProfileName())

			scanner := bufio.NewScanner(app.stdin)
			for {
				fmt.Fprint(app.stdout, "[leonardo]> ")
				if !scanner.Scan() {
					fmt.Fprintln(app.stdout)
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				tokens, err := shlex.Split(line, true)
				if err != nil {
					fmt.Fprintf(app.stdout, "Error parsing command: %v\n", err)
					continue
				}
				if len(tokens) == 0 {
					continue
				}
				if tokens[0] == "shell" {
					fmt.Fprintln(app.stdout, "Already in shell mode")
					continue
				}

				// The dispatched command prints its own errors, a failed
				// line never ends the shell
				_ = app.dispatch(ctx, append(app.persistentArgs(), tokens...))
			}

			fmt.Fprintln(app.stdout, "Exiting shell")
			return scanner.Err()
		},
	}

	return cmd
}

func (a *App) activeProfileName() string {
	if a.profile != "" {
		return a.profile
	}
	return a.cfg.ActiveName()
}
