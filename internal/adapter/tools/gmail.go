package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolGmailInbox       entity.ToolName = "go_to_inbox"
	ToolGmailSent        entity.ToolName = "go_to_sent"
	ToolGmailDrafts      entity.ToolName = "go_to_drafts"
	ToolGmailStarred     entity.ToolName = "go_to_starred"
	ToolGmailCompose     entity.ToolName = "compose_email"
	ToolGmailUnreadCount entity.ToolName = "get_unread_count"
)

const gmailMainView = "div[role='main']"

func GmailEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "gmail",
		Name:        "Gmail",
		Version:     "1.0.2",
		Description: "Folder navigation and compose helpers for the Gmail web client.",
		Domains:     []string{"mail.google.com"},
	},
		NewGmailInboxTool(deps),
		newGmailFolderTool(deps, ToolGmailSent, "#sent", "Sent"),
		newGmailFolderTool(deps, ToolGmailDrafts, "#drafts", "Drafts"),
		newGmailFolderTool(deps, ToolGmailStarred, "#starred", "Starred"),
		NewGmailComposeTool(deps),
		NewGmailUnreadCountTool(deps),
	)
}

func newGmailFolderTool(deps Deps, name entity.ToolName, hash, folder string) *HashNavigateTool {
	return newHashNavigateTool(deps, name,
		"Switches the Gmail view to the "+folder+" folder. Must be in the Gmail web client.",
		hash,
		"Navigated to "+folder+".",
		gmailMainView,
	)
}

func NewGmailInboxTool(deps Deps) *HashNavigateTool {
	return newGmailFolderTool(deps, ToolGmailInbox, "#inbox", "Inbox")
}

func NewGmailComposeTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name: ToolGmailCompose,
		description: "Opens a new message window by clicking Compose. Not idempotent: " +
			"each call opens another draft window.",
		selectors: []string{"div.T-I.T-I-KE.L3[role='button']", "div[gh='cm']"},
		done:      "Compose window opened.",
		notFound:  "Compose button not found. Make sure you are in the Gmail web client.",
	})
}

func NewGmailUnreadCountTool(deps Deps) *CountTool {
	return newCountTool(deps, countSpec{
		name:        ToolGmailUnreadCount,
		description: "Reads the unread counter next to Inbox in the Gmail sidebar. A missing number means zero.",
		selectors:   []string{"a[href$='#inbox'] .bsU", "div[data-tooltip='Inbox'] .bsU"},
		format:      "Inbox has %s unread conversations.",
		notFound:    "Inbox link not found. Make sure the Gmail sidebar is visible.",
		emptyIsZero: true,
		zeroAnchor:  "a[href$='#inbox']",
	})
}
