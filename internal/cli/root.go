// Package cli wires the command tree: configuration, job submission,
// polling, artifact download and the local history ledger.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/config"
	"github.com/connorodea/leonardo-cli/internal/download"
	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
	"github.com/connorodea/leonardo-cli/shared/logger"
	"github.com/connorodea/leonardo-cli/shared/sqlite"
)

// App carries the state shared by every command
type App struct {
	cfgPath  string
	profile  string
	logLevel string
	noColor  bool

	cfg    *config.Config
	log    *logger.Logger
	stdout io.Writer
	stdin  io.Reader

	// dispatch runs one shell line through a fresh command tree so flag
	// state never leaks between commands
	dispatch func(ctx context.Context, args []string) error

	histOnce   sync.Once
	histClient *sqlite.Client
	histStore  *history.Store
	histErr    error
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	app := &App{
		stdout: os.Stdout,
		stdin:  os.Stdin,
		log:    logger.NewDefault(),
	}
	app.dispatch = func(ctx context.Context, args []string) error {
		root := NewRootCmd()
		root.SetArgs(args)
		return root.ExecuteContext(ctx)
	}

	root := &cobra.Command{
		Use:   "leonardo",
		Short: "Command line client for the Leonardo.Ai image generation API",
		Long: `leonardo submits image, video and variation jobs to the Leonardo.Ai
REST API, polls them until they finish and downloads the results.

Examples:
  $ leonardo configure
  $ leonardo generate "a lighthouse in a thunderstorm" --num 2 --alchemy
  $ leonardo video --image-id 8c1a9f2e-0b7d-4c55-a111-39ab1f0b22a1
  $ leonardo history --limit 10`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.PersistentFlags().StringVar(&app.cfgPath, "config", "", "Config file path (default ~/.leonardo-cli/config.yaml)")
	root.PersistentFlags().StringVar(&app.profile, "profile", "", "Configuration profile to use")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "Disable colored log output")

	root.AddCommand(
		newConfigureCmd(app),
		newProfilesCmd(app),
		newUseProfileCmd(app),
		newDeleteProfileCmd(app),
		newUserCmd(app),
		newUsageCmd(app),
		newModelsCmd(app),
		newEstimateCmd(app),
		newGenerateCmd(app),
		newImg2ImgCmd(app),
		newImageGuidanceCmd(app),
		newVideoCmd(app),
		newStatusCmd(app),
		newVideoStatusCmd(app),
		newVariationCmd(app),
		newTemplateCmd(app),
		newBatchCmd(app),
		newDownloadCmd(app),
		newHistoryCmd(app),
		newShellCmd(app),
	)

	return root
}

// init loads the config file and builds the logger. It runs before
// every command, including repeated dispatches from the shell.
func (a *App) init() error {
	if a.cfgPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.cfgPath = path
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log = logger.New(&logger.Config{
		Level:   level,
		Format:  cfg.Logging.Format,
		NoColor: a.noColor,
	})

	return nil
}

func (a *App) close() {
	if a.histClient != nil {
		a.histClient.Close()
		a.histClient = nil
		a.histStore = nil
	}
}

// client builds an API client for the resolved profile
func (a *App) client() (*leonardo.Client, error) {
	key, err := a.cfg.APIKey(a.profile)
	if err != nil {
		return nil, err
	}
	return leonardo.New(&leonardo.Config{
		APIKey:  key,
		BaseURL: a.cfg.Defaults.APIBaseURL,
	}, a.log.Logger)
}

func (a *App) fetcher() *download.Fetcher {
	return download.NewFetcher(a.log.Logger)
}

// historyStore lazily opens the ledger database. The connection stays
// open until the command finishes. Batch workers call this
// concurrently.
func (a *App) historyStore(ctx context.Context) (*history.Store, error) {
	a.histOnce.Do(func() {
		path, err := history.DefaultPath()
		if err != nil {
			a.histErr = err
			return
		}

		client, err := sqlite.NewClient(&sqlite.Config{Path: path}, a.log.Logger)
		if err != nil {
			a.histErr = err
			return
		}

		store := history.NewStore(client.GetDB(), a.log.Logger)
		if err := store.Init(ctx); err != nil {
			client.Close()
			a.histErr = err
			return
		}

		a.histClient = client
		a.histStore = store
	})

	return a.histStore, a.histErr
}

// recordJob writes a ledger entry. The ledger is best effort: a broken
// local database never fails the command.
func (a *App) recordJob(ctx context.Context, entry *history.Entry) {
	store, err := a.historyStore(ctx)
	if err != nil {
		a.log.Warn("History ledger unavailable",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := store.Record(ctx, entry); err != nil {
		a.log.Warn("Failed to record job in history",
			slog.String("job_id", entry.ID),
			slog.String("error", err.Error()),
		)
	}
}

// finishJob updates a ledger entry with its outcome, best effort
func (a *App) finishJob(ctx context.Context, id, status string, files []string, errMsg string) {
	store, err := a.historyStore(ctx)
	if err != nil {
		return
	}

	if err := store.UpdateStatus(ctx, id, status, files, errMsg); err != nil {
		a.log.Warn("Failed to update job in history",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// persistentArgs reconstructs the global flags for shell dispatches
func (a *App) persistentArgs() []string {
	var args []string
	if a.cfgPath != "" {
		args = append(args, "--config", a.cfgPath)
	}
	if a.profile != "" {
		args = append(args, "--profile", a.profile)
	}
	if a.logLevel != "" {
		args = append(args, "--log-level", a.logLevel)
	}
	if a.noColor {
		args = append(args, "--no-color")
	}
	return args
}
