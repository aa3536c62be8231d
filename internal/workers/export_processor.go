// internal/workers/export_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront-catalog/internal/adapters/sheet"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// ExportSink stores a finished workbook and returns where it went.
type ExportSink interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Uploader is the object-store operation an S3 sink needs.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ObjectSink writes exports to an object store.
type ObjectSink struct {
	objects Uploader
}

// NewObjectSink creates a sink over an object store.
func NewObjectSink(objects Uploader) *ObjectSink {
	return &ObjectSink{objects: objects}
}

func (s *ObjectSink) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return s.objects.Upload(ctx, key, bytes.NewReader(body), contentType)
}

// DirSink writes exports below a local directory.
type DirSink struct {
	root string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

func (s *DirSink) Put(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// ExportResult is written back to the task for status queries.
type ExportResult struct {
	Domain   string    `json:"domain"`
	Location string    `json:"location"`
	Rows     int       `json:"rows"`
	Degraded bool      `json:"degraded"`
	Finished time.Time `json:"finished"`
}

// ExportProcessor renders catalog exports as xlsx workbooks
type ExportProcessor struct {
	catalogs ports.CatalogService
	sink     ExportSink
	logger   *slog.Logger
}

// NewExportProcessor creates an export processor
func NewExportProcessor(catalogs ports.CatalogService, sink ExportSink, logger *slog.Logger) *ExportProcessor {
	return &ExportProcessor{
		catalogs: catalogs,
		sink:     sink,
		logger:   logger.With(slog.String("processor", "export")),
	}
}

// ExportKey is the object key of an export requested at t.
func ExportKey(domainName string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s.xlsx", domainName, t.UTC().Format("20060102_150405"))
}

// ProcessExport runs the payload's query over the full catalog and stores the
// resulting workbook.
func (p *ExportProcessor) ProcessExport(ctx context.Context, t *asynq.Task) error {
	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	cfg, err := p.domainConfig(payload.Domain)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := p.catalogs.Query(ctx, payload.Domain, ports.QueryParams{Query: payload.Query, All: true})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFilter) || errors.Is(err, domain.ErrUnknownPriceBucket) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to query %s: %w", payload.Domain, err)
	}

	data, err := sheet.Build(&cfg, res.Items)
	if err != nil {
		return err
	}

	requested := payload.RequestedAt
	if requested.IsZero() {
		requested = time.Now()
	}
	location, err := p.sink.Put(ctx, ExportKey(payload.Domain, requested), data, sheet.ContentType)
	if err != nil {
		return fmt.Errorf("failed to store export: %w", err)
	}

	result := ExportResult{
		Domain:   payload.Domain,
		Location: location,
		Rows:     len(res.Items),
		Degraded: res.Degraded,
		Finished: time.Now().UTC(),
	}
	p.logger.InfoContext(ctx, "catalog export stored",
		slog.String("domain", result.Domain),
		slog.String("location", result.Location),
		slog.Int("rows", result.Rows))

	if w := t.ResultWriter(); w != nil {
		if out, err := json.Marshal(result); err == nil {
			_, _ = w.Write(out)
		}
	}
	return nil
}

func (p *ExportProcessor) domainConfig(name string) (domain.DomainConfig, error) {
	for _, c := range p.catalogs.Domains() {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.DomainConfig{}, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, name)
}
