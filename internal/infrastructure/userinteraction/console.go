package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"webtools/internal/application/port/output"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

// ConsoleUserInteraction prints agent progress. It writes to stderr by
// default so the final answer on stdout stays machine readable.
type ConsoleUserInteraction struct {
	out io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return NewConsoleUserInteractionTo(os.Stderr)
}

func NewConsoleUserInteractionTo(w io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: w}
}

func (u *ConsoleUserInteraction) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Iteration %d/%d ━━━\n", iteration, maxIterations)
}

func (u *ConsoleUserInteraction) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(u.out, "\n💭 ")

	dim := color.New(color.Faint)
	dim.Fprintln(u.out, truncate(content, 500))
}

func (u *ConsoleUserInteraction) ShowToolStart(ctx context.Context, toolName, arguments string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "\n🔧 %s\n", displayName(toolName))

	if summary := formatArguments(arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.out, "   %s\n", summary)
	}
}

func (u *ConsoleUserInteraction) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(u.out, "❌ ")

		dim := color.New(color.Faint)
		dim.Fprintln(u.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(u.out, "✓ %s\n", truncate(firstLine(result), 200))
}

// displayName renders "google_docs__get_document_title" as
// "google_docs › get_document_title".
func displayName(toolName string) string {
	entry, tool, ok := strings.Cut(toolName, "__")
	if !ok {
		return toolName
	}
	return entry + " › " + tool
}

func formatArguments(arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || len(args) == 0 {
		return ""
	}

	parts := make([]string, 0, len(args))
	for k, v := range args {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return truncate(strings.Join(parts, ", "), 80)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
