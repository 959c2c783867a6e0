package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type agentOptions struct {
	url string
}

func (a *App) newAgentCmd() *cobra.Command {
	opts := &agentOptions{}

	cmd := &cobra.Command{
		Use:   "agent <task>",
		Short: "Let an LLM complete a task with the tools of the current page",
		Long: `Run a task with an LLM (through OpenRouter) that can call the tools
applicable on the page open in the browser.

Requires OPENROUTER_API_KEY and OPENROUTER_MODEL_NAME.

Example:
  webtools agent --url https://www.amazon.com/ "How many items are in my cart?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAgent(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Navigate to this URL before starting")

	return cmd
}

func (a *App) runAgent(cmd *cobra.Command, task string, opts *agentOptions) error {
	ctx := cmd.Context()

	c, err := a.container(ctx, "agent_"+task)
	if err != nil {
		return err
	}
	defer c.Close()

	if opts.url != "" {
		if err := c.Browser.Navigate(ctx, opts.url); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
	}

	executor, err := c.TaskExecutor(ctx)
	if err != nil {
		return err
	}

	c.Logger.Info("Task started", "task", task)
	result, err := executor.Execute(ctx, task)
	if err != nil {
		c.Logger.Error("Task failed", "error", err)
		return err
	}

	c.Logger.Info("Task completed", "iterations", result.Iterations, "tool_calls", result.ToolCalls)
	_, _ = fmt.Fprintln(a.stdout, result.FinalAnswer)
	return nil
}
