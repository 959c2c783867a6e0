package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolSlackClearInput  entity.ToolName = "clear_message_input"
	ToolSlackReadInput   entity.ToolName = "get_message_input"
	ToolSlackChannelName entity.ToolName = "get_channel_name"
)

var slackMessageInput = []string{
	"[data-qa='message_input'] div.ql-editor[contenteditable='true']",
	"div.ql-editor[contenteditable='true']",
}

func SlackEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "slack",
		Name:        "Slack",
		Version:     "1.0.0",
		Description: "Message composer and channel helpers for the Slack web app.",
		Domains:     []string{"app.slack.com"},
	},
		NewSlackClearInputTool(deps),
		NewSlackReadInputTool(deps),
		NewSlackChannelNameTool(deps),
	)
}

func NewSlackClearInputTool(deps Deps) *ClearEditorTool {
	return &ClearEditorTool{
		binding: newBinding(ToolSlackClearInput,
			"Clears the draft in the Slack message composer of the open conversation. Nothing is sent.", ""),
		deps:      deps,
		selectors: slackMessageInput,
		done:      "Message input cleared.",
		notFound:  "Message input not found. Make sure a Slack conversation is open.",
	}
}

func NewSlackReadInputTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolSlackReadInput,
		description: "Reads the draft currently typed in the Slack message composer.",
		locators:    textAt(slackMessageInput...),
		format:      "Message input contains: %s",
		field:       "text",
		notFound:    "Message input not found. Make sure a Slack conversation is open.",
		empty:       "Message input is empty.",
	})
}

func NewSlackChannelNameTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolSlackChannelName,
		description: "Reads the name of the channel or conversation open in Slack.",
		locators:    textAt("[data-qa='channel_name']", "[data-qa='channel_header_name']"),
		format:      "Current channel: %s",
		field:       "channel",
		notFound:    "Channel name not found. Make sure a Slack conversation is open.",
	})
}
