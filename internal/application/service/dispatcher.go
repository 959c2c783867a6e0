package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"webtools/internal/application/port/input"
	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ input.ToolDispatcher = (*Dispatcher)(nil)

type DispatcherConfig struct {
	// StrictApplicability rejects calls to bindings that do not apply to the
	// page currently loaded.
	StrictApplicability bool
	Diagnostics         output.DiagnosticsPort
}

// Dispatcher validates and invokes bindings one at a time. The page is a
// single-writer resource, so invocations are serialized.
type Dispatcher struct {
	catalog *Catalog
	page    output.PagePort
	logger  output.LoggerPort
	cfg     DispatcherConfig
	schemas map[string]*jsonschema.Schema
	mu      sync.Mutex
}

func NewDispatcher(catalog *Catalog, page output.PagePort, logger output.LoggerPort, cfg DispatcherConfig) (*Dispatcher, error) {
	schemas := make(map[string]*jsonschema.Schema)
	for _, e := range catalog.Entries() {
		for _, t := range e.Tools() {
			compiled, err := compileSchema(t.InputSchema())
			if err != nil {
				return nil, fmt.Errorf("entry %q tool %s: %w", e.ID(), t.Name(), err)
			}
			schemas[QualifiedName(e.ID(), t.Name())] = compiled
		}
	}

	return &Dispatcher{
		catalog: catalog,
		page:    page,
		logger:  logger.Named("dispatcher"),
		cfg:     cfg,
		schemas: schemas,
	}, nil
}

func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// Invoke runs one binding. The returned error is reserved for protocol
// failures (unknown tool, bad arguments, not applicable); anything that goes
// wrong inside the binding comes back as an error Result.
func (d *Dispatcher) Invoke(ctx context.Context, entryID string, name entity.ToolName, args json.RawMessage) (entity.Result, error) {
	entry, tool, err := d.catalog.Lookup(entryID, name)
	if err != nil {
		return entity.Result{}, err
	}

	if err := validateArgs(d.schemas[QualifiedName(entryID, name)], args); err != nil {
		d.logger.Warn("Rejected arguments", "entry", entryID, "tool", name, "error", err)
		return entity.Result{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	log := d.logger.WithFields(map[string]any{
		"invocation_id": uuid.NewString(),
		"entry":         entryID,
		"tool":          string(name),
	})

	if d.cfg.StrictApplicability {
		loc, err := d.page.Location(ctx)
		if err != nil {
			return entity.Result{}, fmt.Errorf("read page location: %w", err)
		}
		if !entry.MatchesHost(loc.Host) || !entry.MatchesPath(name, loc.Path) {
			log.Warn("Tool not applicable", "url", loc.URL)
			return entity.Result{}, fmt.Errorf("%w: %s/%s on %s", ErrNotApplicable, entryID, name, loc.URL)
		}
	}

	start := time.Now()
	result := d.execute(ctx, tool, args, log)
	log.Info("Tool completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"is_error", result.IsError,
	)

	if result.IsError && d.cfg.Diagnostics != nil {
		if err := d.cfg.Diagnostics.RecordFailure(ctx, entryID, name, result); err != nil {
			log.Warn("Failed to record diagnostics", "error", err)
		}
	}

	return result, nil
}

// InvokeQualified resolves an "entry__tool" name and invokes it.
func (d *Dispatcher) InvokeQualified(ctx context.Context, qualified string, args json.RawMessage) (entity.Result, error) {
	entryID, name, ok := d.catalog.SplitQualifiedName(qualified)
	if !ok {
		return entity.Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, qualified)
	}
	return d.Invoke(ctx, entryID, name, args)
}

func (d *Dispatcher) execute(ctx context.Context, tool output.ToolPort, args json.RawMessage, log output.LoggerPort) (result entity.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Tool panicked", "panic", fmt.Sprint(r))
			result = entity.ErrorResultf("Tool %s failed unexpectedly: %v", tool.Name(), r)
		}
	}()

	result = tool.Execute(ctx, args)
	if len(result.Content) == 0 {
		log.Error("Tool returned no content")
		return entity.ErrorResultf("Tool %s returned no result.", tool.Name())
	}
	return result
}

// Applicable returns the catalog bindings offered on the current page.
func (d *Dispatcher) Applicable(ctx context.Context) ([]Match, entity.PageLocation, error) {
	loc, err := d.page.Location(ctx)
	if err != nil {
		return nil, entity.PageLocation{}, fmt.Errorf("read page location: %w", err)
	}
	return d.catalog.Applicable(loc), loc, nil
}

// Available returns the bindings applicable on the current page as LLM tool
// definitions.
func (d *Dispatcher) Available(ctx context.Context) ([]entity.ToolDefinition, error) {
	matches, _, err := d.Applicable(ctx)
	if err != nil {
		return nil, err
	}
	return Definitions(matches), nil
}

func Definitions(matches []Match) []entity.ToolDefinition {
	defs := make([]entity.ToolDefinition, 0, len(matches))
	for _, m := range matches {
		defs = append(defs, entity.ToolDefinition{
			Name:        m.QualifiedName(),
			Description: fmt.Sprintf("[%s] %s", m.Entry.Meta().Name, m.Tool.Description()),
			Parameters:  m.Tool.InputSchema().Map(),
			EntryID:     m.Entry.ID(),
			Tool:        m.Tool.Name(),
		})
	}
	return defs
}

// IsProtocolError reports whether err came from the dispatcher itself rather
// than from the page.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrToolNotFound) ||
		errors.Is(err, ErrInvalidArguments) ||
		errors.Is(err, ErrNotApplicable)
}
