// internal/workers/prune_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

// PruneResult is written back to the task for status queries.
type PruneResult struct {
	Deleted int       `json:"deleted"`
	Kept    int       `json:"kept"`
	Cutoff  time.Time `json:"cutoff"`
}

// PruneProcessor removes local export workbooks older than the retention.
type PruneProcessor struct {
	root      string
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewPruneProcessor creates a processor sweeping root.
func NewPruneProcessor(root string, retention time.Duration, logger *slog.Logger) *PruneProcessor {
	return &PruneProcessor{
		root:      root,
		retention: retention,
		now:       time.Now,
		logger:    logger.With(slog.String("processor", "prune")),
	}
}

// ProcessPrune walks the export directory and deletes expired files. A
// payload max age overrides the configured retention.
func (p *PruneProcessor) ProcessPrune(ctx context.Context, t *asynq.Task) error {
	retention := p.retention
	if len(t.Payload()) > 0 {
		var payload PrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal prune payload: %v: %w", err, asynq.SkipRetry)
		}
		if payload.MaxAge > 0 {
			retention = payload.MaxAge
		}
	}
	if retention <= 0 {
		p.logger.DebugContext(ctx, "export pruning disabled")
		return nil
	}

	res := PruneResult{Cutoff: p.now().Add(-retention)}
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.ModTime().Before(res.Cutoff) {
			res.Kept++
			return nil
		}
		if err := os.Remove(path); err != nil {
			p.logger.WarnContext(ctx, "failed to delete export",
				slog.String("file", path),
				slog.String("error", err.Error()))
			return nil
		}
		res.Deleted++
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		// nothing exported yet
		err = nil
	}
	if err != nil {
		return fmt.Errorf("failed to walk export directory: %w", err)
	}

	p.logger.InfoContext(ctx, "exports pruned",
		slog.Int("deleted", res.Deleted),
		slog.Int("kept", res.Kept),
		slog.Time("cutoff", res.Cutoff))

	if w := t.ResultWriter(); w != nil {
		if body, err := json.Marshal(res); err == nil {
			_, _ = w.Write(body)
		}
	}
	return nil
}
