package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

type readMode int

const (
	readText readMode = iota
	readValue
	readRegion
)

type locator struct {
	selector string
	mode     readMode
}

func textAt(selectors ...string) []locator   { return locate(readText, selectors) }
func valueAt(selectors ...string) []locator  { return locate(readValue, selectors) }
func regionAt(selectors ...string) []locator { return locate(readRegion, selectors) }

func locate(mode readMode, selectors []string) []locator {
	locs := make([]locator, 0, len(selectors))
	for _, s := range selectors {
		locs = append(locs, locator{selector: s, mode: mode})
	}
	return locs
}

var _ output.ToolPort = (*ReadTool)(nil)

// ReadTool returns the text or value of the first element found.
type ReadTool struct {
	binding
	deps     Deps
	locators []locator
	format   string
	field    string
	notFound string
	empty    string
}

type readSpec struct {
	name        entity.ToolName
	description string
	pathPattern string
	locators    []locator
	// format receives the trimmed value, e.g. "Document title: %s".
	format string
	// field names the value in structured content.
	field    string
	notFound string
	// empty is returned instead of format when the element has no content.
	empty string
}

func newReadTool(deps Deps, spec readSpec) *ReadTool {
	return &ReadTool{
		binding:  newBinding(spec.name, spec.description, spec.pathPattern),
		deps:     deps,
		locators: spec.locators,
		format:   spec.format,
		field:    spec.field,
		notFound: spec.notFound,
		empty:    spec.empty,
	}
}

func (t *ReadTool) Execute(ctx context.Context, _ json.RawMessage) entity.Result {
	for _, loc := range t.locators {
		ok, err := t.deps.Page.Has(ctx, loc.selector)
		if err != nil {
			return pageFailure(t.deps, t.name, "inspect the page", err)
		}
		if !ok {
			continue
		}

		value, err := t.read(ctx, loc)
		if err != nil {
			return pageFailure(t.deps, t.name, "read "+loc.selector, err)
		}
		value = strings.TrimSpace(value)
		if value == "" && t.empty != "" {
			return entity.TextResult(t.empty).WithStructured(map[string]interface{}{t.field: ""})
		}
		return entity.TextResultf(t.format, value).WithStructured(map[string]interface{}{t.field: value})
	}
	return entity.ErrorResult(t.notFound)
}

func (t *ReadTool) read(ctx context.Context, loc locator) (string, error) {
	switch loc.mode {
	case readValue:
		return t.deps.Page.Value(ctx, loc.selector)
	case readRegion:
		return t.deps.Page.RegionText(ctx, loc.selector)
	case readText:
		return t.deps.Page.Text(ctx, loc.selector)
	default:
		return "", fmt.Errorf("unknown read mode %d", loc.mode)
	}
}
