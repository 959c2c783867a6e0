package input

import "context"

type ExecuteResult struct {
	FinalAnswer string
	Iterations  int
	ToolCalls   int
}

type TaskExecutor interface {
	Execute(ctx context.Context, task string) (*ExecuteResult, error)
}
