package output

import (
	"context"
	"encoding/json"

	"webtools/internal/domain/entity"
)

// ToolPort is a single site binding. Execute has no error return: every
// failure is an error Result.
type ToolPort interface {
	Name() entity.ToolName
	Description() string
	InputSchema() entity.InputSchema
	PathPattern() string
	Execute(ctx context.Context, args json.RawMessage) entity.Result
}

type DiagnosticsPort interface {
	RecordFailure(ctx context.Context, entryID string, tool entity.ToolName, result entity.Result) error
}
