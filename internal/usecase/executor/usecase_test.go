package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
	"webtools/internal/infrastructure/logger"
)

type scriptedLLM struct {
	replies  []entity.Message
	requests []output.ChatRequest
}

func (s *scriptedLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.requests) > len(s.replies) {
		return &output.ChatResponse{Message: s.replies[len(s.replies)-1]}, nil
	}
	return &output.ChatResponse{Message: s.replies[len(s.requests)-1]}, nil
}

type fakeDispatcher struct {
	available [][]entity.ToolDefinition
	results   map[string]entity.Result
	errs      map[string]error
	calls     []string
	listed    int
}

func (f *fakeDispatcher) Invoke(context.Context, string, entity.ToolName, json.RawMessage) (entity.Result, error) {
	return entity.Result{}, errors.New("not used")
}

func (f *fakeDispatcher) InvokeQualified(_ context.Context, qualified string, _ json.RawMessage) (entity.Result, error) {
	f.calls = append(f.calls, qualified)
	if err, ok := f.errs[qualified]; ok {
		return entity.Result{}, err
	}
	return f.results[qualified], nil
}

func (f *fakeDispatcher) Available(context.Context) ([]entity.ToolDefinition, error) {
	idx := f.listed
	if idx >= len(f.available) {
		idx = len(f.available) - 1
	}
	f.listed++
	return f.available[idx], nil
}

func call(id, name string) entity.Message {
	return entity.Message{
		Role:      entity.RoleAssistant,
		ToolCalls: []entity.ToolCall{{ID: id, Name: name, Arguments: "{}"}},
	}
}

func TestExecute_ToolLoop(t *testing.T) {
	llm := &scriptedLLM{replies: []entity.Message{
		call("c1", "gmail__go_to_inbox"),
		call("c2", "gmail__get_unread_count"),
		{Role: entity.RoleAssistant, Content: "You have 4 unread emails."},
	}}
	tools := &fakeDispatcher{
		available: [][]entity.ToolDefinition{
			{{Name: "gmail__go_to_inbox"}},
			{{Name: "gmail__go_to_inbox"}, {Name: "gmail__get_unread_count"}},
		},
		results: map[string]entity.Result{
			"gmail__go_to_inbox":      entity.TextResult("Navigated to Inbox."),
			"gmail__get_unread_count": entity.TextResult("Inbox has 4 unread messages."),
		},
	}

	uc := New(llm, tools, logger.Nop(), nil, "system")
	res, err := uc.Execute(context.Background(), "how many unread emails?")
	require.NoError(t, err)

	assert.Equal(t, "You have 4 unread emails.", res.FinalAnswer)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 2, res.ToolCalls)
	assert.Equal(t, []string{"gmail__go_to_inbox", "gmail__get_unread_count"}, tools.calls)

	require.Len(t, llm.requests, 3)
	assert.Len(t, llm.requests[0].Tools, 1)
	assert.Len(t, llm.requests[1].Tools, 2, "tool list is refreshed after navigation")

	last := llm.requests[2].Messages
	observation := last[len(last)-1]
	assert.Equal(t, entity.RoleTool, observation.Role)
	assert.Equal(t, "c2", observation.ToolCallID)
	assert.Equal(t, "Inbox has 4 unread messages.", observation.Content)
}

func TestExecute_ErrorObservations(t *testing.T) {
	llm := &scriptedLLM{replies: []entity.Message{
		{
			Role: entity.RoleAssistant,
			ToolCalls: []entity.ToolCall{
				{ID: "c1", Name: "amazon__get_cart_count", Arguments: "{}"},
				{ID: "c2", Name: "amazon__nope", Arguments: "{}"},
			},
		},
		{Role: entity.RoleAssistant, Content: "Not on Amazon."},
	}}
	tools := &fakeDispatcher{
		available: [][]entity.ToolDefinition{{{Name: "amazon__get_cart_count"}}},
		results: map[string]entity.Result{
			"amazon__get_cart_count": entity.ErrorResult("Cart count element not found. Make sure you are on Amazon."),
		},
		errs: map[string]error{"amazon__nope": fmt.Errorf("tool not found: amazon__nope")},
	}

	res, err := New(llm, tools, logger.Nop(), nil, "system").Execute(context.Background(), "cart?")
	require.NoError(t, err)
	assert.Equal(t, "Not on Amazon.", res.FinalAnswer)

	msgs := llm.requests[1].Messages
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, "Error: Cart count element not found. Make sure you are on Amazon.", msgs[len(msgs)-2].Content)
	assert.Equal(t, "Error: tool not found: amazon__nope", msgs[len(msgs)-1].Content)
}

func TestExecute_MaxIterations(t *testing.T) {
	llm := &scriptedLLM{replies: []entity.Message{call("c", "gmail__go_to_inbox")}}
	tools := &fakeDispatcher{
		available: [][]entity.ToolDefinition{{{Name: "gmail__go_to_inbox"}}},
		results:   map[string]entity.Result{"gmail__go_to_inbox": entity.TextResult("Navigated to Inbox.")},
	}

	_, err := New(llm, tools, logger.Nop(), nil, "system").Execute(context.Background(), "loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations")
	assert.Len(t, tools.calls, maxIterations)
}

func TestExecuteTool_TruncatesObservation(t *testing.T) {
	long := make([]byte, maxObservationLen+10)
	for i := range long {
		long[i] = 'a'
	}
	tools := &fakeDispatcher{results: map[string]entity.Result{
		"pastebin__get_paste_text": entity.TextResult(string(long)),
	}}

	uc := New(&scriptedLLM{}, tools, logger.Nop(), nil, "")
	obs, structured := uc.executeTool(context.Background(), entity.ToolCall{Name: "pastebin__get_paste_text", Arguments: "{}"})

	assert.Len(t, obs, maxObservationLen+len("\n... (truncated)"))
	assert.Nil(t, structured)
}

func TestClip_RuneBoundary(t *testing.T) {
	s := strings.Repeat("ü", 10)

	out := clip(s, 4)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "üüüü\n... (truncated)", out)

	assert.Equal(t, s, clip(s, 10), "ten runes fit even though the string is twenty bytes")
	assert.Equal(t, "short", clip("short", 10))
}

func TestExecute_StructuredContentReachesModel(t *testing.T) {
	llm := &scriptedLLM{replies: []entity.Message{
		call("c1", "amazon__get_cart_count"),
		{Role: entity.RoleAssistant, Content: "10 or more."},
	}}
	tools := &fakeDispatcher{
		available: [][]entity.ToolDefinition{{{Name: "amazon__get_cart_count"}}},
		results: map[string]entity.Result{
			"amazon__get_cart_count": entity.TextResult("Cart contains 10+ items.").
				WithStructured(map[string]interface{}{"count": 10, "isOverflow": true}),
		},
	}

	_, err := New(llm, tools, logger.Nop(), nil, "system").Execute(context.Background(), "cart?")
	require.NoError(t, err)

	msgs := llm.requests[1].Messages
	observation := msgs[len(msgs)-1]
	assert.Equal(t, entity.RoleTool, observation.Role)
	assert.Equal(t, "Cart contains 10+ items.", observation.Content)
	assert.Equal(t, map[string]interface{}{"count": 10, "isOverflow": true}, observation.Structured)
}
