package tools

import (
	"context"
	"encoding/json"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ output.ToolPort = (*ClickTool)(nil)

// ClickTool clicks the first element of a selector fallback chain exactly once.
type ClickTool struct {
	binding
	deps      Deps
	selectors []string
	done      string
	notFound  string
	navigates bool
	ready     string
}

type clickSpec struct {
	name        entity.ToolName
	description string
	pathPattern string
	selectors   []string
	done        string
	notFound    string
	// navigates makes the binding wait for the page after clicking, polling
	// ready when it is set.
	navigates bool
	ready     string
}

func newClickTool(deps Deps, spec clickSpec) *ClickTool {
	return &ClickTool{
		binding:   newBinding(spec.name, spec.description, spec.pathPattern),
		deps:      deps,
		selectors: spec.selectors,
		done:      spec.done,
		notFound:  spec.notFound,
		navigates: spec.navigates,
		ready:     spec.ready,
	}
}

func (t *ClickTool) Execute(ctx context.Context, _ json.RawMessage) entity.Result {
	sel, ok, err := firstPresent(ctx, t.deps.Page, t.selectors)
	if err != nil {
		return pageFailure(t.deps, t.name, "inspect the page", err)
	}
	if !ok {
		return entity.ErrorResult(t.notFound)
	}

	if err := t.deps.Page.Click(ctx, sel); err != nil {
		return pageFailure(t.deps, t.name, "click "+sel, err)
	}

	if t.navigates {
		settle(ctx, t.deps, t.name, t.ready)
	}
	return entity.TextResult(t.done)
}
