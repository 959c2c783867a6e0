package input

import (
	"context"
	"encoding/json"

	"webtools/internal/domain/entity"
)

// ToolDispatcher is the runtime side of the binding contract: it validates
// arguments and invokes one binding of one registry entry.
type ToolDispatcher interface {
	Invoke(ctx context.Context, entryID string, tool entity.ToolName, args json.RawMessage) (entity.Result, error)
	InvokeQualified(ctx context.Context, qualified string, args json.RawMessage) (entity.Result, error)
	Available(ctx context.Context) ([]entity.ToolDefinition, error)
}
