package service

import (
	"context"
	"encoding/json"
	"sync"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

type stubTool struct {
	name    entity.ToolName
	pattern string
	schema  entity.InputSchema
	exec    func(ctx context.Context, args json.RawMessage) entity.Result

	mu    sync.Mutex
	calls int
}

func newStub(name entity.ToolName, pattern string) *stubTool {
	return &stubTool{name: name, pattern: pattern, schema: entity.EmptySchema()}
}

func (s *stubTool) Name() entity.ToolName           { return s.name }
func (s *stubTool) Description() string             { return "Stub " + string(s.name) + "." }
func (s *stubTool) InputSchema() entity.InputSchema { return s.schema }
func (s *stubTool) PathPattern() string             { return s.pattern }

func (s *stubTool) Execute(ctx context.Context, args json.RawMessage) entity.Result {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.exec != nil {
		return s.exec(ctx, args)
	}
	return entity.TextResult("ok")
}

type stubPage struct {
	output.PagePort
	url string
}

func (p *stubPage) Location(context.Context) (entity.PageLocation, error) {
	return entity.ParseLocation(p.url)
}

type recordingDiagnostics struct {
	failures []string
}

func (r *recordingDiagnostics) RecordFailure(_ context.Context, entryID string, tool entity.ToolName, _ entity.Result) error {
	r.failures = append(r.failures, QualifiedName(entryID, tool))
	return nil
}

func meta(id string, domains ...string) entity.EntryMeta {
	return entity.EntryMeta{ID: id, Name: id, Version: "1.0.0", Domains: domains}
}

func location(raw string) entity.PageLocation {
	loc, err := entity.ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}
