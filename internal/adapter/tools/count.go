package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var countPattern = regexp.MustCompile(`^(\d+)(\+?)$`)

// parseCount reads badge counters such as "3" or "10+". A trailing plus means
// the site capped the displayed number.
func parseCount(raw string) (count int, overflow bool, err error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	m := countPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false, fmt.Errorf("not a count: %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, err
	}
	return n, m[2] == "+", nil
}

var _ output.ToolPort = (*CountTool)(nil)

// CountTool reads a numeric badge and reports it as {count, isOverflow}.
type CountTool struct {
	binding
	deps        Deps
	selectors   []string
	format      string
	notFound    string
	emptyIsZero bool
	zeroAnchor  string
}

type countSpec struct {
	name        entity.ToolName
	description string
	pathPattern string
	selectors   []string
	// format receives the count as displayed, e.g. "10+".
	format   string
	notFound string
	// emptyIsZero treats a present but blank badge as zero.
	emptyIsZero bool
	// zeroAnchor, when present without any badge, means the count is zero:
	// sites drop the badge instead of showing 0.
	zeroAnchor string
}

func newCountTool(deps Deps, spec countSpec) *CountTool {
	return &CountTool{
		binding:     newBinding(spec.name, spec.description, spec.pathPattern),
		deps:        deps,
		selectors:   spec.selectors,
		format:      spec.format,
		notFound:    spec.notFound,
		emptyIsZero: spec.emptyIsZero,
		zeroAnchor:  spec.zeroAnchor,
	}
}

func (t *CountTool) Execute(ctx context.Context, _ json.RawMessage) entity.Result {
	sel, ok, err := firstPresent(ctx, t.deps.Page, t.selectors)
	if err != nil {
		return pageFailure(t.deps, t.name, "inspect the page", err)
	}
	if !ok {
		if t.zeroAnchor == "" {
			return entity.ErrorResult(t.notFound)
		}
		anchored, err := t.deps.Page.Has(ctx, t.zeroAnchor)
		if err != nil {
			return pageFailure(t.deps, t.name, "inspect the page", err)
		}
		if !anchored {
			return entity.ErrorResult(t.notFound)
		}
		return t.result(0, false)
	}

	raw, err := t.deps.Page.Text(ctx, sel)
	if err != nil {
		return pageFailure(t.deps, t.name, "read "+sel, err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" && t.emptyIsZero {
		raw = "0"
	}

	count, overflow, err := parseCount(raw)
	if err != nil {
		t.deps.Logger.Warn("Unparsable counter", "tool", string(t.name), "text", raw)
		return entity.ErrorResultf("Could not read count from %q.", raw)
	}

	return t.result(count, overflow)
}

func (t *CountTool) result(count int, overflow bool) entity.Result {
	display := strconv.Itoa(count)
	if overflow {
		display += "+"
	}
	return entity.TextResultf(t.format, display).WithStructured(map[string]interface{}{
		"count":      count,
		"isOverflow": overflow,
	})
}
