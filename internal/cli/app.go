// Package cli is the webtools command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"webtools/internal/application/port/output"
	"webtools/internal/di"
	"webtools/internal/infrastructure/env"
)

// Version is set at build time.
var Version = "dev"

type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	config output.ConfigPort
}

func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "webtools",
		Short: "Site-specific browser tools for agents",
		Long: `webtools exposes small, site-specific browser tools (Amazon, Gmail, Slack,
Google Docs and Sheets, Companies House, Pastebin, AliExpress) that act on the
page open in Chrome. Tools are offered over MCP, HTTP, or to a built-in agent.

Attach to your own Chrome with WEBTOOLS_CONTROL_URL to reuse logged-in sessions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.config == nil {
				app.config = env.NewEnvService()
			}
		},
	}

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newListCmd(),
		app.newCallCmd(),
		app.newServeCmd(),
		app.newHTTPCmd(),
		app.newAgentCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithConfig replaces the environment backed configuration.
func (a *App) WithConfig(cfg output.ConfigPort) *App {
	a.config = cfg
	return a
}

// Execute runs the CLI until it finishes or the process is interrupted.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "webtools version %s\n", Version)
		},
	}
}

// container starts the browser and the dispatcher for one command.
func (a *App) container(ctx context.Context, logName string) (*di.Container, error) {
	return di.NewContainer(ctx, di.ConfigFromEnv(a.config, logName))
}
