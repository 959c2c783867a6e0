package executor

import (
	"context"
	"encoding/json"
	"fmt"

	"webtools/internal/application/port/input"
	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	maxIterations     = 20
	maxObservationLen = 20000
)

// UseCase lets an LLM drive the site bindings. The tool list is rebuilt every
// iteration because navigation bindings change which bindings apply.
type UseCase struct {
	llm          output.LLMPort
	tools        input.ToolDispatcher
	logger       output.LoggerPort
	ui           output.UserInteractionPort
	systemPrompt string
}

func New(
	llm output.LLMPort,
	tools input.ToolDispatcher,
	logger output.LoggerPort,
	ui output.UserInteractionPort,
	systemPrompt string,
) *UseCase {
	return &UseCase{
		llm:          llm,
		tools:        tools,
		logger:       logger.Named("executor"),
		ui:           ui,
		systemPrompt: systemPrompt,
	}
}

func (uc *UseCase) Execute(ctx context.Context, task string) (*input.ExecuteResult, error) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.systemPrompt},
		{Role: entity.RoleUser, Content: task},
	}
	toolCalls := 0

	for iteration := 1; iteration <= maxIterations; iteration++ {
		uc.logger.Debug("Starting iteration", "iteration", iteration)
		if uc.ui != nil {
			uc.ui.ShowIteration(ctx, iteration, maxIterations)
		}

		toolDefs, err := uc.tools.Available(ctx)
		if err != nil {
			return nil, fmt.Errorf("list available tools: %w", err)
		}

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return &input.ExecuteResult{
				FinalAnswer: resp.Message.Content,
				Iterations:  iteration,
				ToolCalls:   toolCalls,
			}, nil
		}

		if uc.ui != nil {
			uc.ui.ShowThinking(ctx, resp.Message.Content)
		}

		for _, tc := range resp.Message.ToolCalls {
			toolCalls++
			observation, structured := uc.executeTool(ctx, tc)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
				Structured: structured,
			})
		}
	}

	return nil, fmt.Errorf("max iterations (%d) exceeded", maxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) (string, map[string]interface{}) {
	uc.logger.Info("Executing tool", "name", tc.Name, "entry", tc.EntryID, "args", tc.Arguments)
	if uc.ui != nil {
		uc.ui.ShowToolStart(ctx, tc.Name, tc.Arguments)
	}

	result, err := uc.tools.InvokeQualified(ctx, tc.Name, json.RawMessage(tc.Arguments))
	if err != nil {
		uc.logger.Warn("Tool call rejected", "name", tc.Name, "error", err)
		result = entity.ErrorResult(err.Error())
	}

	observation := clip(result.Text(), maxObservationLen)
	if uc.ui != nil {
		uc.ui.ShowToolResult(ctx, tc.Name, observation, result.IsError)
	}
	if result.IsError {
		observation = "Error: " + observation
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "is_error", result.IsError, "resultLen", len(observation))
	return observation, result.StructuredContent
}

// clip cuts s to at most maxRunes runes.
func clip(s string, maxRunes int) string {
	if len(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "\n... (truncated)"
}
