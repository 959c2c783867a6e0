package tools

import (
	"fmt"

	"webtools/internal/application/service"
)

type entryFactory func(Deps) (*service.Entry, error)

var entryFactories = []entryFactory{
	AmazonEntry,
	GmailEntry,
	SlackEntry,
	GoogleDocsEntry,
	GoogleSheetsEntry,
	CompaniesHouseEntry,
	PastebinEntry,
	AliExpressEntry,
}

// NewCatalog builds every site entry against one page.
func NewCatalog(deps Deps) (*service.Catalog, error) {
	entries := make([]*service.Entry, 0, len(entryFactories))
	for _, build := range entryFactories {
		e, err := build(deps)
		if err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		entries = append(entries, e)
	}
	return service.NewCatalog(entries...)
}
