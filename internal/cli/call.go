package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"webtools/internal/domain/entity"
)

// ErrToolFailed is returned when a tool ran but reported an error result.
var ErrToolFailed = errors.New("tool reported an error")

type callOptions struct {
	args string
	url  string
}

func (a *App) newCallCmd() *cobra.Command {
	opts := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <entry> <tool>",
		Short: "Invoke one tool on the current page",
		Long: `Invoke one tool and print its result as JSON.

Examples:
  # Read the cart badge of the page already open
  webtools call amazon get_cart_count

  # Open Gmail first, then switch to the inbox
  webtools call gmail go_to_inbox --url https://mail.google.com/mail/u/0/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, args[0], entity.ToolName(args[1]), opts)
		},
	}

	cmd.Flags().StringVar(&opts.args, "args", "{}", "Tool arguments as a JSON object")
	cmd.Flags().StringVar(&opts.url, "url", "", "Navigate to this URL before invoking")

	return cmd
}

func (a *App) call(cmd *cobra.Command, entryID string, name entity.ToolName, opts *callOptions) error {
	ctx := cmd.Context()

	c, err := a.container(ctx, "call_"+entryID+"_"+string(name))
	if err != nil {
		return err
	}
	defer c.Close()

	if opts.url != "" {
		if err := c.Browser.Navigate(ctx, opts.url); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
	}

	result, err := c.Dispatcher.Invoke(ctx, entryID, name, json.RawMessage(opts.args))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if result.IsError {
		return ErrToolFailed
	}
	return nil
}
