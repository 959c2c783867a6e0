package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolDocsTitle     entity.ToolName = "get_document_title"
	ToolDocsShare     entity.ToolName = "open_share_dialog"
	ToolSheetsTitle   entity.ToolName = "get_spreadsheet_title"
	ToolSheetsCell    entity.ToolName = "get_active_cell"
	ToolSheetsFormula entity.ToolName = "get_formula_bar_content"
)

// Docs and Sheets share a host; the editor path tells them apart.
const (
	docsEditorPath   = `^/document/d/`
	sheetsEditorPath = `^/spreadsheets/d/`
	docsTitleInput   = "input.docs-title-input"
)

func GoogleDocsEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "google-docs",
		Name:        "Google Docs",
		Version:     "1.0.0",
		Description: "Document editor helpers for Google Docs.",
		Domains:     []string{"docs.google.com"},
	},
		NewDocsTitleTool(deps),
		NewDocsShareTool(deps),
	)
}

func GoogleSheetsEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "google-sheets",
		Name:        "Google Sheets",
		Version:     "1.0.0",
		Description: "Spreadsheet editor helpers for Google Sheets.",
		Domains:     []string{"docs.google.com"},
	},
		NewSheetsTitleTool(deps),
		NewSheetsActiveCellTool(deps),
		NewSheetsFormulaTool(deps),
	)
}

func NewDocsTitleTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolDocsTitle,
		description: "Reads the title of the document open in the Google Docs editor.",
		pathPattern: docsEditorPath,
		locators:    valueAt(docsTitleInput),
		format:      "Document title: %s",
		field:       "title",
		notFound:    "Title input not found. Make sure you are in the Google Docs editor.",
		empty:       "Document is untitled.",
	})
}

func NewDocsShareTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name:        ToolDocsShare,
		description: "Opens the Share dialog of the document open in the Google Docs editor.",
		pathPattern: docsEditorPath,
		selectors:   []string{"#docs-titlebar-share-client-button div[role='button']", "div[aria-label^='Share']"},
		done:        "Share dialog opened.",
		notFound:    "Share button not found. Make sure you are in the Google Docs editor.",
	})
}

func NewSheetsTitleTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolSheetsTitle,
		description: "Reads the title of the spreadsheet open in Google Sheets.",
		pathPattern: sheetsEditorPath,
		locators:    valueAt(docsTitleInput),
		format:      "Spreadsheet title: %s",
		field:       "title",
		notFound:    "Title input not found. Make sure you are in the Google Sheets editor.",
		empty:       "Spreadsheet is untitled.",
	})
}

func NewSheetsActiveCellTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolSheetsCell,
		description: "Reads the reference of the selected cell or range from the Google Sheets name box.",
		pathPattern: sheetsEditorPath,
		locators:    valueAt("#t-name-box"),
		format:      "Active cell: %s",
		field:       "cell",
		notFound:    "Name box not found. Make sure you are in the Google Sheets editor.",
	})
}

func NewSheetsFormulaTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolSheetsFormula,
		description: "Reads the formula or value of the selected cell from the Google Sheets formula bar.",
		pathPattern: sheetsEditorPath,
		locators:    textAt("#t-formula-bar-input .cell-input", "#t-formula-bar-input"),
		format:      "Formula bar: %s",
		field:       "content",
		notFound:    "Formula bar not found. Make sure you are in the Google Sheets editor.",
		empty:       "Selected cell is empty.",
	})
}
