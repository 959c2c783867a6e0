package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
	"webtools/internal/infrastructure/logger"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultAppName = "webtools"
)

// OpenRouterAdapter talks to OpenRouter's OpenAI-compatible chat endpoint.
// Tool calls in a reply are resolved back to the bindings that were offered.
type OpenRouterAdapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// AppName and AppURL are sent as X-Title and HTTP-Referer so calls are
	// attributed in the OpenRouter dashboard.
	AppName string
	AppURL  string
	Logger  output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		AppName: defaultAppName,
	}
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("openrouter")

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			appName: cfg.AppName,
			appURL:  cfg.AppURL,
			logger:  log,
		},
	}

	return &OpenRouterAdapter{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: log,
	}
}

func (a *OpenRouterAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		request.Messages = append(request.Messages, wireMessage(m))
	}

	offered := make(map[string]entity.ToolDefinition, len(req.Tools))
	for _, def := range req.Tools {
		offered[def.Name] = def
		request.Tools = append(request.Tools, bindingFunction(def))
	}
	if len(request.Tools) > 0 {
		request.ToolChoice = "auto"
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion with %s: %w", a.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	a.logger.Debug("Chat completed",
		"model", resp.Model,
		"finish_reason", string(choice.FinishReason),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"bindings_offered", len(req.Tools),
	)

	msg := entity.Message{
		Role:    entity.MessageRole(choice.Message.Role),
		Content: choice.Message.Content,
	}
	for _, tc := range choice.Message.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, a.resolve(tc, offered))
	}
	return &output.ChatResponse{Message: msg}, nil
}

// resolve maps a tool call onto the binding it names. A name that was not
// offered keeps empty routing fields; the dispatcher rejects it.
func (a *OpenRouterAdapter) resolve(tc openai.ToolCall, offered map[string]entity.ToolDefinition) entity.ToolCall {
	call := entity.ToolCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: tc.Function.Arguments,
	}
	def, ok := offered[call.Name]
	if !ok {
		a.logger.Warn("Model called a binding that was not offered", "name", call.Name, "call_id", tc.ID)
		return call
	}
	call.EntryID = def.EntryID
	call.Tool = def.Tool
	a.logger.Info("Model picked binding", "entry", def.EntryID, "tool", string(def.Tool), "call_id", tc.ID)
	return call
}

func wireMessage(m entity.Message) openai.ChatCompletionMessage {
	wire := openai.ChatCompletionMessage{
		Role:    string(m.Role),
		Content: m.Content,
	}
	switch m.Role {
	case entity.RoleTool:
		wire.ToolCallID = m.ToolCallID
		wire.Name = m.Name
		wire.Content = withStructured(m.Content, m.Structured)
	case entity.RoleAssistant:
		for _, tc := range m.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
				ID:       tc.ID,
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
	}
	return wire
}

// withStructured appends a binding's structured content to its observation;
// chat messages have no separate field for it.
func withStructured(content string, structured map[string]interface{}) string {
	if len(structured) == 0 {
		return content
	}
	data, err := json.Marshal(structured)
	if err != nil {
		return content
	}
	return content + "\nstructuredContent: " + string(data)
}

func bindingFunction(def entity.ToolDefinition) openai.Tool {
	params := def.Parameters
	if params == nil {
		params = entity.EmptySchema().Map()
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  params,
		},
	}
}

// attributionTransport tags requests for OpenRouter and logs their outcome
// without bodies, which carry page content.
type attributionTransport struct {
	base    http.RoundTripper
	appName string
	appURL  string
	logger  output.LoggerPort
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.appName != "" {
		req.Header.Set("X-Title", t.appName)
	}
	if t.appURL != "" {
		req.Header.Set("HTTP-Referer", t.appURL)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("OpenRouter request failed", "path", req.URL.Path, "error", err)
		return nil, err
	}
	t.logger.Debug("OpenRouter request",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
