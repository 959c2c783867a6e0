package tools

import (
	"context"
	"time"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

// Deps is what every binding needs to act on the page.
type Deps struct {
	Page   output.PagePort
	Logger output.LoggerPort
	Settle Settle
}

// Settle bounds how long a navigation binding waits for the page to react.
// With a readiness selector the binding polls for it up to Timeout; without
// one it waits Delay.
type Settle struct {
	Delay   time.Duration
	Timeout time.Duration
}

func DefaultSettle() Settle {
	return Settle{
		Delay:   500 * time.Millisecond,
		Timeout: 3 * time.Second,
	}
}

type binding struct {
	name        entity.ToolName
	description string
	schema      entity.InputSchema
	pathPattern string
}

func newBinding(name entity.ToolName, description, pathPattern string) binding {
	return binding{
		name:        name,
		description: description,
		schema:      entity.EmptySchema(),
		pathPattern: pathPattern,
	}
}

func (b binding) Name() entity.ToolName           { return b.name }
func (b binding) Description() string             { return b.description }
func (b binding) InputSchema() entity.InputSchema { return b.schema }
func (b binding) PathPattern() string             { return b.pathPattern }

// firstPresent tries each selector in order and returns the first one present
// on the page.
func firstPresent(ctx context.Context, page output.PagePort, selectors []string) (string, bool, error) {
	for _, sel := range selectors {
		ok, err := page.Has(ctx, sel)
		if err != nil {
			return "", false, err
		}
		if ok {
			return sel, true, nil
		}
	}
	return "", false, nil
}

// settle gives the page time to react to a navigation. A readiness timeout is
// not a failure: the side effect already happened.
func settle(ctx context.Context, deps Deps, name entity.ToolName, ready string) {
	if ready == "" {
		if deps.Settle.Delay <= 0 {
			return
		}
		timer := time.NewTimer(deps.Settle.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		return
	}

	if err := deps.Page.WaitFor(ctx, ready, deps.Settle.Timeout); err != nil {
		deps.Logger.Warn("Page not ready after navigation",
			"tool", string(name),
			"ready_selector", ready,
			"timeout", deps.Settle.Timeout.String(),
			"error", err,
		)
	}
}

func pageFailure(deps Deps, name entity.ToolName, action string, err error) entity.Result {
	deps.Logger.Error("Page operation failed", "tool", string(name), "action", action, "error", err)
	return entity.ErrorResultf("Could not %s: %v", action, err)
}
