package tools

import (
	"context"
	"encoding/json"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ output.ToolPort = (*ClearEditorTool)(nil)

// ClearEditorTool empties a rich-text editor and fires one input event so the
// page's framework sees the change.
type ClearEditorTool struct {
	binding
	deps      Deps
	selectors []string
	done      string
	notFound  string
}

func (t *ClearEditorTool) Execute(ctx context.Context, _ json.RawMessage) entity.Result {
	sel, ok, err := firstPresent(ctx, t.deps.Page, t.selectors)
	if err != nil {
		return pageFailure(t.deps, t.name, "inspect the page", err)
	}
	if !ok {
		return entity.ErrorResult(t.notFound)
	}
	if err := t.deps.Page.ClearEditable(ctx, sel); err != nil {
		return pageFailure(t.deps, t.name, "clear "+sel, err)
	}
	return entity.TextResult(t.done)
}
