package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/protocol"

	"webtools/internal/application/port/output"
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

// Invoker runs a binding by its qualified name.
type Invoker interface {
	InvokeQualified(ctx context.Context, qualified string, args json.RawMessage) (entity.Result, error)
}

// ToolServer exposes every catalog binding as an MCP tool named
// "<entry>__<tool>".
type ToolServer struct {
	srv     *mcpgo.Server
	invoker Invoker
	logger  output.LoggerPort
	names   []string
	schemas map[string]map[string]interface{}
}

type ServerConfig struct {
	Name         string
	Version      string
	Description  string
	Instructions string

	Catalog *service.Catalog
	Invoker Invoker
	Logger  output.LoggerPort
}

func NewToolServer(cfg ServerConfig) *ToolServer {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &ToolServer{
		srv:     mcpgo.NewServer(info, opts...),
		invoker: cfg.Invoker,
		logger:  cfg.Logger.Named("mcp"),
		schemas: make(map[string]map[string]interface{}),
	}

	for _, e := range cfg.Catalog.Entries() {
		for _, t := range e.Tools() {
			s.register(e, t)
		}
	}

	return s
}

func (s *ToolServer) register(e *service.Entry, t output.ToolPort) {
	name := service.QualifiedName(e.ID(), t.Name())
	s.names = append(s.names, name)
	s.schemas[name] = t.InputSchema().Map()

	s.srv.Tool(name).
		Description(describe(e, t)).
		Handler(s.handler(name))
}

// handler invokes the binding and returns its Result encoded as JSON. Only
// protocol failures come back as a Go error; a binding that ran and failed is
// an isError result. bindingEnvelope unpacks the encoded Result on the wire.
func (s *ToolServer) handler(name string) func(ctx context.Context, input map[string]any) (string, error) {
	return func(ctx context.Context, input map[string]any) (string, error) {
		if input == nil {
			input = map[string]any{}
		}
		args, err := json.Marshal(input)
		if err != nil {
			return "", protocol.NewInvalidParams(err.Error())
		}

		result, err := s.invoker.InvokeQualified(ctx, name, args)
		if err != nil {
			s.logger.Warn("Call rejected",
				"tool", name,
				"request_id", mcpgo.RequestIDFromContext(ctx),
				"error", err,
			)
			return "", callError(err)
		}

		data, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("encode result of %s: %w", name, err)
		}
		return string(data), nil
	}
}

func callError(err error) error {
	switch {
	case errors.Is(err, service.ErrToolNotFound):
		return protocol.NewNotFound(err.Error())
	case errors.Is(err, service.ErrInvalidArguments), errors.Is(err, service.ErrNotApplicable):
		return protocol.NewInvalidParams(err.Error())
	default:
		return err
	}
}

func describe(e *service.Entry, t output.ToolPort) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Meta().Name, t.Description())
	fmt.Fprintf(&b, " Available on %s", strings.Join(e.Meta().Domains, ", "))
	if p := t.PathPattern(); p != "" {
		fmt.Fprintf(&b, " (path %s)", p)
	}
	b.WriteString(".")
	return b.String()
}

// ToolNames lists the registered names in catalog order.
func (s *ToolServer) ToolNames() []string {
	return append([]string(nil), s.names...)
}

func (s *ToolServer) Server() *mcpgo.Server {
	return s.srv
}

// Middleware is the request chain the server is served with.
func (s *ToolServer) Middleware() []mcpgo.Middleware {
	return []mcpgo.Middleware{
		mcpgo.Recover(),
		mcpgo.RequestID(),
		s.bindingEnvelope(),
	}
}

// ServeStdio runs the server over stdin/stdout until ctx is done.
func (s *ToolServer) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	s.logger.Info("Serving MCP over stdio", "tools", len(s.names))
	opts = append([]mcpgo.ServeOption{mcpgo.WithMiddleware(s.Middleware()...)}, opts...)
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}
