package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type Message struct {
	Role       MessageRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
	// Structured is the binding's structuredContent on a tool message.
	Structured map[string]interface{}
}

// ToolCall is a call requested by the model. EntryID and Tool are set when the
// name matches a binding that was offered.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	EntryID   string
	Tool      ToolName
}

// ToolDefinition is a binding as offered to an LLM. EntryID and Tool route the
// call back to the catalog.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	EntryID     string
	Tool        ToolName
}
