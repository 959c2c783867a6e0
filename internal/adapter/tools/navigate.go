package tools

import (
	"context"
	"encoding/json"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ output.ToolPort = (*HashNavigateTool)(nil)

// HashNavigateTool switches views in single-page apps that route on the
// location hash.
type HashNavigateTool struct {
	binding
	deps  Deps
	hash  string
	done  string
	ready string
}

func newHashNavigateTool(deps Deps, name entity.ToolName, description, hash, done, ready string) *HashNavigateTool {
	return &HashNavigateTool{
		binding: newBinding(name, description, ""),
		deps:    deps,
		hash:    hash,
		done:    done,
		ready:   ready,
	}
}

func (t *HashNavigateTool) Execute(ctx context.Context, _ json.RawMessage) entity.Result {
	if err := t.deps.Page.SetHash(ctx, t.hash); err != nil {
		return pageFailure(t.deps, t.name, "change location to "+t.hash, err)
	}
	settle(ctx, t.deps, t.name, t.ready)
	return entity.TextResult(t.done)
}
