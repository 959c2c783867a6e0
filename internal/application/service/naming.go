package service

import (
	"strings"

	"webtools/internal/domain/entity"
)

const qualifiedSep = "__"

// QualifiedName is the catalog-wide tool name used by hosts that expose a flat
// tool list, e.g. "amazon__get_cart_count".
func QualifiedName(entryID string, name entity.ToolName) string {
	return strings.ReplaceAll(entryID, "-", "_") + qualifiedSep + string(name)
}

// SplitQualifiedName resolves a qualified name against the catalog.
func (c *Catalog) SplitQualifiedName(qualified string) (string, entity.ToolName, bool) {
	prefix, name, ok := strings.Cut(qualified, qualifiedSep)
	if !ok || name == "" {
		return "", "", false
	}
	for _, e := range c.entries {
		if strings.ReplaceAll(e.ID(), "-", "_") == prefix {
			return e.ID(), entity.ToolName(name), true
		}
	}
	return "", "", false
}
