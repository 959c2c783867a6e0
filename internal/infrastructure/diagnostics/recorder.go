package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ output.DiagnosticsPort = (*Recorder)(nil)

// Recorder keeps a screenshot and a small JSON report for every failed
// binding so that selector drift on a live site can be inspected later.
type Recorder struct {
	dir    string
	page   output.PagePort
	logger output.LoggerPort
	now    func() time.Time
}

type report struct {
	Entry     string        `json:"entry"`
	Tool      string        `json:"tool"`
	URL       string        `json:"url,omitempty"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Image     string        `json:"image,omitempty"`
	Result    entity.Result `json:"result"`
}

func NewRecorder(dir string, page output.PagePort, logger output.LoggerPort) *Recorder {
	return &Recorder{
		dir:    dir,
		page:   page,
		logger: logger.Named("diagnostics"),
		now:    time.Now,
	}
}

func (r *Recorder) RecordFailure(ctx context.Context, entryID string, tool entity.ToolName, result entity.Result) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}

	ts := r.now()
	base := fmt.Sprintf("%s_%s_%s", ts.Format("20060102-150405.000"), entryID, tool)
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")

	rep := report{
		Entry:     entryID,
		Tool:      string(tool),
		Message:   result.Text(),
		Timestamp: ts,
		Result:    result,
	}

	if loc, err := r.page.Location(ctx); err == nil {
		rep.URL = loc.URL
	} else {
		r.logger.Warn("Could not read page location", "error", err)
	}

	// The report is still useful when the page cannot be captured.
	if shot, err := r.page.Screenshot(ctx); err != nil {
		r.logger.Warn("Could not capture screenshot", "error", err)
	} else {
		image := base + "." + shot.Format
		if err := os.WriteFile(filepath.Join(r.dir, image), shot.Data, 0644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
		rep.Image = image
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(r.dir, base+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	r.logger.Info("Recorded failure", "entry", entryID, "tool", string(tool), "report", path)
	return nil
}
