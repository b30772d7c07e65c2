package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/history"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		kind    string
		status  string
		batchID string
		limit   int
		files   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List jobs submitted from this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			switch kind {
			case "", history.KindGeneration, history.KindMotion, history.KindVariation:
			default:
				return fmt.Errorf("invalid kind: %q (must be generation, motion or variation)", kind)
			}
			switch status {
			case "", history.StatusPending, history.StatusComplete, history.StatusFailed:
			default:
				return fmt.Errorf("invalid status: %q (must be pending, complete or failed)", status)
			}

			store, err := app.historyStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to open history ledger: %w", err)
			}

			entries, err := store.List(ctx, history.Filter{
				Kind:    kind,
				Status:  status,
				BatchID: batchID,
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			renderHistory(app.stdout, entries)

			if files {
				for _, entry := range entries {
					for _, path := range entry.FileList() {
						fmt.Fprintf(app.stdout, "%s: %s\n", entry.ID, path)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by job kind (generation, motion, variation)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, complete, failed)")
	cmd.Flags().StringVar(&batchID, "batch", "", "Filter by batch ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&files, "files", false, "Also list downloaded file paths")

	return cmd
}
