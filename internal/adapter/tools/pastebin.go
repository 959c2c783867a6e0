package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolPasteTitle entity.ToolName = "get_paste_title"
	ToolPasteText  entity.ToolName = "get_paste_text"
	ToolPasteRaw   entity.ToolName = "go_to_raw"
)

const pastePath = `^/[A-Za-z0-9]{8}$`

func PastebinEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "pastebin",
		Name:        "Pastebin",
		Version:     "1.0.0",
		Description: "Readers for public Pastebin pastes.",
		Domains:     []string{"pastebin.com"},
	},
		NewPasteTitleTool(deps),
		NewPasteTextTool(deps),
		NewPasteRawTool(deps),
	)
}

func NewPasteTitleTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolPasteTitle,
		description: "Reads the title of the paste being viewed.",
		pathPattern: pastePath,
		locators:    textAt(".info-top h1", ".paste_box_line1"),
		format:      "Paste title: %s",
		field:       "title",
		notFound:    "Paste title not found. Make sure you are viewing a paste.",
		empty:       "Paste is untitled.",
	})
}

func NewPasteTextTool(deps Deps) *ReadTool {
	locs := append(valueAt("textarea.textarea"), regionAt(".source", "ol.bash, ol.text")...)
	return newReadTool(deps, readSpec{
		name:        ToolPasteText,
		description: "Reads the full content of the paste being viewed, from the raw textarea when present.",
		pathPattern: pastePath,
		locators:    locs,
		format:      "%s",
		field:       "text",
		notFound:    "Paste content not found. Make sure you are viewing a paste.",
		empty:       "Paste is empty.",
	})
}

func NewPasteRawTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name:        ToolPasteRaw,
		description: "Opens the raw text view of the paste being viewed.",
		pathPattern: pastePath,
		selectors:   []string{"a[href^='/raw/']"},
		done:        "Navigated to raw paste.",
		notFound:    "Raw link not found. Make sure you are viewing a paste.",
		navigates:   true,
	})
}
