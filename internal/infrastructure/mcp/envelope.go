package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/protocol"

	"webtools/internal/domain/entity"
)

// bindingEnvelope fits mcp-go's generic tool plumbing to bindings.
// tools/list advertises each binding's declared input schema instead of the
// one derived from the handler type. tools/call treats absent arguments as an
// empty object and answers with the binding Result itself, so isError and
// structuredContent reach the client.
func (s *ToolServer) bindingEnvelope() mcpgo.Middleware {
	return func(next mcpgo.MiddlewareHandlerFunc) mcpgo.MiddlewareHandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			switch req.Method {
			case protocol.MethodToolsList:
				resp, err := next(ctx, req)
				if err == nil && resp != nil && resp.Error == nil {
					s.declareSchemas(resp)
				}
				return resp, err

			case protocol.MethodToolsCall:
				resp, err := next(ctx, withDefaultArguments(req))
				if err == nil && resp != nil && resp.Error == nil {
					liftResult(resp)
				}
				return resp, err

			default:
				return next(ctx, req)
			}
		}
	}
}

func (s *ToolServer) declareSchemas(resp *protocol.Response) {
	result, ok := resp.Result.(map[string]any)
	if !ok {
		return
	}
	for _, tool := range objects(result["tools"]) {
		name, _ := tool["name"].(string)
		if schema, ok := s.schemas[name]; ok {
			tool["inputSchema"] = schema
		}
	}
}

func withDefaultArguments(req *protocol.Request) *protocol.Request {
	var params map[string]json.RawMessage
	if err := json.Unmarshal(req.Params, &params); err != nil || params == nil {
		return req
	}
	if args := bytes.TrimSpace(params["arguments"]); len(args) > 0 && !bytes.Equal(args, []byte("null")) {
		return req
	}

	params["arguments"] = json.RawMessage(`{}`)
	raw, err := json.Marshal(params)
	if err != nil {
		return req
	}
	clone := *req
	clone.Params = raw
	return &clone
}

func liftResult(resp *protocol.Response) {
	result, ok := resp.Result.(map[string]any)
	if !ok {
		return
	}
	content := objects(result["content"])
	if len(content) != 1 {
		return
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		return
	}

	var decoded entity.Result
	if err := json.Unmarshal([]byte(text), &decoded); err != nil || len(decoded.Content) == 0 {
		return
	}
	resp.Result = decoded
}

// objects reads a list of JSON objects in either the in-process or the
// decoded form.
func objects(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
