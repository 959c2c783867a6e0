package entity

type EntryMeta struct {
	ID          string
	Name        string
	Version     string
	Description string
	Domains     []string
}

// EntryInfo is the directory listing form of a registry entry.
type EntryInfo struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Version     string     `json:"version" yaml:"version"`
	Description string     `json:"description" yaml:"description"`
	Domains     []string   `json:"domains" yaml:"domains"`
	Tools       []ToolInfo `json:"tools" yaml:"tools"`
}
