package output

import "context"

// UserInteractionPort reports agent progress to whoever started the task.
type UserInteractionPort interface {
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
	ShowThinking(ctx context.Context, content string)
}
