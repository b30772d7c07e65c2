package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connorodea/leonardo-cli/internal/config"
)

func newShellApp(input string, dispatch func(ctx context.Context, args []string) error) (*App, *bytes.Buffer) {
	output := &bytes.Buffer{}
	app := &App{
		cfg:      config.Default(),
		stdout:   output,
		stdin:    strings.NewReader(input),
		dispatch: dispatch,
	}
	return app, output
}

func runShell(t *testing.T, app *App) {
	t.Helper()
	cmd := newShellCmd(app)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
}

func TestShell_DispatchesCommands(t *testing.T) {
	var dispatched [][]string
	app, output := newShellApp(
		"models --all\ngenerate \"a red fox\" --num 2\nexit\n",
		func(ctx context.Context, args []string) error {
			dispatched = append(dispatched, args)
			return nil
		},
	)

	runShell(t, app)

	require.Len(t, dispatched, 2)
	assert.Equal(t, []string{"models", "--all"}, dispatched[0])
	assert.Equal(t, []string{"generate", "a red fox", "--num", "2"}, dispatched[1])

	got := output.String()
	assert.Contains(t, got, "Leonardo AI CLI Interactive Shell")
	assert.Contains(t, got, "Using profile: default")
	assert.Contains(t, got, "[leonardo]> ")
	assert.Contains(t, got, "Exiting shell")
}

func TestShell_ForwardsGlobalFlags(t *testing.T) {
	var dispatched [][]string
	app, output := newShellApp(
		"usage\nquit\n",
		func(ctx context.Context, args []string) error {
			dispatched = append(dispatched, args)
			return nil
		},
	)
	app.profile = "work"

	runShell(t, app)

	require.Len(t, dispatched, 1)
	assert.Equal(t, []string{"--profile", "work", "usage"}, dispatched[0])
	assert.Contains(t, output.String(), "Using profile: work")
}

func TestShell_BlocksNestedShell(t *testing.T) {
	app, output := newShellApp(
		"shell\nexit\n",
		func(ctx context.Context, args []string) error {
			t.Fatal("nested shell must not dispatch")
			return nil
		},
	)

	runShell(t, app)

	assert.Contains(t, output.String(), "Already in shell mode")
}

func TestShell_ReportsParseErrors(t *testing.T) {
	app, output := newShellApp(
		"generate \"unclosed\nexit\n",
		func(ctx context.Context, args []string) error {
			t.Fatal("a malformed line must not dispatch")
			return nil
		},
	)

	runShell(t, app)

	got := output.String()
	assert.Contains(t, got, "Error parsing command:")
	assert.Contains(t, got, "Exiting shell")
}

func TestShell_SurvivesFailedCommands(t *testing.T) {
	calls := 0
	app, output := newShellApp(
		"status missing-id\nmodels\nexit\n",
		func(ctx context.Context, args []string) error {
			calls++
			if calls == 1 {
				return errors.New("generation not found")
			}
			return nil
		},
	)

	runShell(t, app)

	assert.Equal(t, 2, calls, "the shell keeps going after a failed command")
	assert.Contains(t, output.String(), "Exiting shell")
}

func TestShell_SkipsBlankLinesAndStopsOnEOF(t *testing.T) {
	app, output := newShellApp(
		"\n   \n",
		func(ctx context.Context, args []string) error {
			t.Fatal("blank lines must not dispatch")
			return nil
		},
	)

	runShell(t, app)

	assert.Contains(t, output.String(), "Exiting shell")
}
