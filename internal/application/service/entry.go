package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

const patternMatchTimeout = 50 * time.Millisecond

// Entry groups the bindings of one site. It is built once and never mutated.
type Entry struct {
	meta     entity.EntryMeta
	tools    []output.ToolPort
	byName   map[entity.ToolName]output.ToolPort
	patterns map[entity.ToolName]*regexp2.Regexp
}

// NewEntry validates the binding set: names must be pairwise distinct, every
// required argument must be a declared property, and path patterns must compile
// as ECMAScript regular expressions.
func NewEntry(meta entity.EntryMeta, tools ...output.ToolPort) (*Entry, error) {
	if len(meta.Domains) == 0 {
		return nil, fmt.Errorf("entry %q: %w", meta.ID, ErrNoDomains)
	}

	domains := make([]string, 0, len(meta.Domains))
	for _, d := range meta.Domains {
		domains = append(domains, strings.ToLower(strings.TrimSpace(d)))
	}
	meta.Domains = domains

	e := &Entry{
		meta:     meta,
		tools:    make([]output.ToolPort, 0, len(tools)),
		byName:   make(map[entity.ToolName]output.ToolPort, len(tools)),
		patterns: make(map[entity.ToolName]*regexp2.Regexp),
	}

	for _, t := range tools {
		name := t.Name()
		if _, exists := e.byName[name]; exists {
			return nil, fmt.Errorf("entry %q: %w: %s", meta.ID, ErrDuplicateTool, name)
		}

		if missing := t.InputSchema().MissingRequired(); len(missing) > 0 {
			return nil, fmt.Errorf("entry %q tool %s: %w: required %v not in properties",
				meta.ID, name, ErrInvalidSchema, missing)
		}

		if src := t.PathPattern(); src != "" {
			re, err := regexp2.Compile(src, regexp2.ECMAScript)
			if err != nil {
				return nil, fmt.Errorf("entry %q tool %s: %w: %v", meta.ID, name, ErrInvalidPattern, err)
			}
			re.MatchTimeout = patternMatchTimeout
			e.patterns[name] = re
		}

		e.byName[name] = t
		e.tools = append(e.tools, t)
	}

	return e, nil
}

func MustEntry(meta entity.EntryMeta, tools ...output.ToolPort) *Entry {
	e, err := NewEntry(meta, tools...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Entry) ID() string               { return e.meta.ID }
func (e *Entry) Meta() entity.EntryMeta   { return e.meta }
func (e *Entry) Tools() []output.ToolPort { return append([]output.ToolPort(nil), e.tools...) }

func (e *Entry) Get(name entity.ToolName) (output.ToolPort, bool) {
	t, ok := e.byName[name]
	return t, ok
}

// MatchedDomain reports the declared domain the host belongs to: an exact
// match, or a suffix match on a label boundary.
func (e *Entry) MatchedDomain(host string) (string, bool) {
	host = normalizeHost(host)
	if host == "" {
		return "", false
	}
	best := ""
	for _, d := range e.meta.Domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			if len(d) > len(best) {
				best = d
			}
		}
	}
	return best, best != ""
}

func (e *Entry) MatchesHost(host string) bool {
	_, ok := e.MatchedDomain(host)
	return ok
}

// MatchesPath reports whether a binding is applicable on path. Bindings without
// a pattern apply everywhere within the entry's domains.
func (e *Entry) MatchesPath(name entity.ToolName, path string) bool {
	re, ok := e.patterns[name]
	if !ok {
		return true
	}
	matched, err := re.MatchString(path)
	if err != nil {
		return false
	}
	return matched
}

// Applicable returns the bindings offered on loc, in declared order.
func (e *Entry) Applicable(loc entity.PageLocation) []output.ToolPort {
	if !e.MatchesHost(loc.Host) {
		return nil
	}
	var result []output.ToolPort
	for _, t := range e.tools {
		if e.MatchesPath(t.Name(), loc.Path) {
			result = append(result, t)
		}
	}
	return result
}

func (e *Entry) Info() entity.EntryInfo {
	infos := make([]entity.ToolInfo, 0, len(e.tools))
	for _, t := range e.tools {
		infos = append(infos, ToolInfo(t))
	}
	return entity.EntryInfo{
		ID:          e.meta.ID,
		Name:        e.meta.Name,
		Version:     e.meta.Version,
		Description: e.meta.Description,
		Domains:     append([]string(nil), e.meta.Domains...),
		Tools:       infos,
	}
}

func ToolInfo(t output.ToolPort) entity.ToolInfo {
	return entity.ToolInfo{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema(),
		PathPattern: t.PathPattern(),
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}
