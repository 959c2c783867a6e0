package entity

type ToolName string

func (t ToolName) String() string {
	return string(t)
}

type Property struct {
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// InputSchema is the declared argument shape of a tool binding.
type InputSchema struct {
	Type       string              `json:"type" yaml:"type"`
	Properties map[string]Property `json:"properties" yaml:"properties"`
	Required   []string            `json:"required" yaml:"required"`
}

func EmptySchema() InputSchema {
	return InputSchema{
		Type:       "object",
		Properties: map[string]Property{},
		Required:   []string{},
	}
}

// MissingRequired returns the required names that are not declared as properties.
func (s InputSchema) MissingRequired() []string {
	var missing []string
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Map renders the schema in the map form LLM and MCP clients expect.
func (s InputSchema) Map() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[name] = prop
	}
	required := s.Required
	if required == nil {
		required = []string{}
	}
	typ := s.Type
	if typ == "" {
		typ = "object"
	}
	return map[string]interface{}{
		"type":       typ,
		"properties": props,
		"required":   required,
	}
}

// ToolInfo is the info-only projection of a binding: everything but execute.
type ToolInfo struct {
	Name        ToolName    `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	InputSchema InputSchema `json:"inputSchema" yaml:"inputSchema"`
	PathPattern string      `json:"pathPattern,omitempty" yaml:"pathPattern,omitempty"`
}
