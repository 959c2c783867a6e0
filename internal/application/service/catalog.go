package service

import (
	"fmt"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

// Catalog is the ordered set of registry entries exposed to a host.
type Catalog struct {
	entries []*Entry
	byID    map[string]*Entry
}

func NewCatalog(entries ...*Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]*Entry, 0, len(entries)),
		byID:    make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		if _, exists := c.byID[e.ID()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.ID())
		}
		c.byID[e.ID()] = e
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (c *Catalog) Entries() []*Entry {
	return append([]*Entry(nil), c.entries...)
}

func (c *Catalog) Entry(id string) (*Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

func (c *Catalog) Lookup(entryID string, name entity.ToolName) (*Entry, output.ToolPort, error) {
	e, ok := c.byID[entryID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: entry %q", ErrToolNotFound, entryID)
	}
	t, ok := e.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s/%s", ErrToolNotFound, entryID, name)
	}
	return e, t, nil
}

func (c *Catalog) Infos() []entity.EntryInfo {
	infos := make([]entity.EntryInfo, 0, len(c.entries))
	for _, e := range c.entries {
		infos = append(infos, e.Info())
	}
	return infos
}

// Match is one binding offered on a page together with the entry it came from.
type Match struct {
	Entry *Entry
	Tool  output.ToolPort

	domain string
}

func (m Match) QualifiedName() string {
	return QualifiedName(m.Entry.ID(), m.Tool.Name())
}

// Applicable filters the whole catalog for loc. Bindings sharing a name across
// entries are resolved by specificity: the longer matched domain wins, then a
// binding with a path pattern beats one without, then the longer pattern.
// Equally specific bindings are all kept, in catalog order.
func (c *Catalog) Applicable(loc entity.PageLocation) []Match {
	var matches []Match
	for _, e := range c.entries {
		domain, ok := e.MatchedDomain(loc.Host)
		if !ok {
			continue
		}
		for _, t := range e.Applicable(loc) {
			matches = append(matches, Match{Entry: e, Tool: t, domain: domain})
		}
	}
	return resolveConflicts(matches)
}

func resolveConflicts(matches []Match) []Match {
	best := make(map[entity.ToolName]specificity, len(matches))
	for _, m := range matches {
		s := specificityOf(m)
		if cur, ok := best[m.Tool.Name()]; !ok || s.greater(cur) {
			best[m.Tool.Name()] = s
		}
	}

	result := make([]Match, 0, len(matches))
	for _, m := range matches {
		if specificityOf(m) == best[m.Tool.Name()] {
			result = append(result, m)
		}
	}
	return result
}

type specificity struct {
	domainLen  int
	hasPattern bool
	patternLen int
}

func specificityOf(m Match) specificity {
	p := m.Tool.PathPattern()
	return specificity{
		domainLen:  len(m.domain),
		hasPattern: p != "",
		patternLen: len(p),
	}
}

func (s specificity) greater(o specificity) bool {
	if s.domainLen != o.domainLen {
		return s.domainLen > o.domainLen
	}
	if s.hasPattern != o.hasPattern {
		return s.hasPattern
	}
	return s.patternLen > o.patternLen
}
