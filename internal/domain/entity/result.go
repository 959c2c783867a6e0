package entity

import (
	"fmt"
	"strings"
)

type ContentType string

const (
	ContentTypeText ContentType = "text"
)

type ContentBlock struct {
	Type ContentType `json:"type"`
	Text string      `json:"text"`
}

// Result is what every binding returns. Failures are reported through IsError,
// never through a Go error.
type Result struct {
	Content           []ContentBlock         `json:"content"`
	IsError           bool                   `json:"isError,omitempty"`
	StructuredContent map[string]interface{} `json:"structuredContent,omitempty"`
}

func TextResult(text string) Result {
	return Result{
		Content: []ContentBlock{{Type: ContentTypeText, Text: text}},
	}
}

func TextResultf(format string, args ...any) Result {
	return TextResult(fmt.Sprintf(format, args...))
}

func ErrorResult(text string) Result {
	r := TextResult(text)
	r.IsError = true
	return r
}

func ErrorResultf(format string, args ...any) Result {
	return ErrorResult(fmt.Sprintf(format, args...))
}

func (r Result) WithStructured(content map[string]interface{}) Result {
	r.StructuredContent = content
	return r
}

// Text joins all text blocks with newlines.
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
