package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

func testCatalog(t *testing.T) *service.Catalog {
	t.Helper()
	catalog, err := NewCatalog(testDeps(newFakePage("about:blank")))
	require.NoError(t, err)
	return catalog
}

func TestCatalog_EntriesAreWellFormed(t *testing.T) {
	catalog := testCatalog(t)
	require.Len(t, catalog.Entries(), len(entryFactories))

	for _, e := range catalog.Entries() {
		info := e.Info()
		assert.NotEmpty(t, info.Name, info.ID)
		assert.NotEmpty(t, info.Version, info.ID)
		assert.NotEmpty(t, info.Domains, info.ID)
		require.NotEmpty(t, info.Tools, info.ID)

		seen := map[entity.ToolName]bool{}
		for _, tool := range info.Tools {
			assert.False(t, seen[tool.Name], "%s: duplicate tool %s", info.ID, tool.Name)
			seen[tool.Name] = true

			assert.NotEmpty(t, tool.Description, "%s/%s", info.ID, tool.Name)
			assert.Equal(t, "object", tool.InputSchema.Type)
			assert.Empty(t, tool.InputSchema.MissingRequired(), "%s/%s", info.ID, tool.Name)
		}
	}
}

func applicableNames(catalog *service.Catalog, url string) []string {
	loc, err := entity.ParseLocation(url)
	if err != nil {
		return nil
	}
	var names []string
	for _, m := range catalog.Applicable(loc) {
		names = append(names, m.QualifiedName())
	}
	return names
}

func TestCatalog_Applicability(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("amazon home", func(t *testing.T) {
		names := applicableNames(catalog, "https://www.amazon.com/")
		assert.Equal(t, []string{"amazon__get_cart_count", "amazon__go_to_cart"}, names)
	})

	t.Run("amazon product page on a regional store", func(t *testing.T) {
		names := applicableNames(catalog, "https://www.amazon.co.uk/Kettle/dp/B000000001/ref=x")
		assert.Contains(t, names, "amazon__get_product_title")
		assert.Contains(t, names, "amazon__add_to_cart")
	})

	t.Run("amazon product paths need an ASIN", func(t *testing.T) {
		assert.Contains(t, applicableNames(catalog, "https://www.amazon.com/gp/product/B0DEADBEEF"), "amazon__get_product_title")
		assert.NotContains(t, applicableNames(catalog, "https://www.amazon.com/dp/"), "amazon__get_product_title")
		assert.NotContains(t, applicableNames(catalog, "https://www.amazon.com/dp/b00000001"), "amazon__add_to_cart")
	})

	t.Run("lookalike host", func(t *testing.T) {
		assert.Empty(t, applicableNames(catalog, "https://notamazon.com/"))
	})

	t.Run("docs and sheets share a host", func(t *testing.T) {
		docs := applicableNames(catalog, "https://docs.google.com/document/d/abc/edit")
		assert.Equal(t, []string{"google_docs__get_document_title", "google_docs__open_share_dialog"}, docs)

		sheets := applicableNames(catalog, "https://docs.google.com/spreadsheets/d/abc/edit#gid=0")
		assert.Equal(t, []string{
			"google_sheets__get_spreadsheet_title",
			"google_sheets__get_active_cell",
			"google_sheets__get_formula_bar_content",
		}, sheets)

		assert.Empty(t, applicableNames(catalog, "https://docs.google.com/forms/d/abc"))
	})

	t.Run("companies house company page", func(t *testing.T) {
		names := applicableNames(catalog, "https://find-and-update.company-information.service.gov.uk/company/SC123456/officers")
		assert.Len(t, names, 6)

		assert.Empty(t, applicableNames(catalog, "https://find-and-update.company-information.service.gov.uk/search?q=acme"))
	})

	t.Run("pastebin", func(t *testing.T) {
		assert.Len(t, applicableNames(catalog, "https://pastebin.com/AbCd1234"), 3)
		assert.Empty(t, applicableNames(catalog, "https://pastebin.com/archive"))
	})

	t.Run("gmail everywhere on the host", func(t *testing.T) {
		assert.Len(t, applicableNames(catalog, "https://mail.google.com/mail/u/0/#inbox"), 6)
	})
}
