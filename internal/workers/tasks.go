// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// Task types
const (
	TypeCatalogRefresh = "catalog:refresh"
	TypeCatalogExport  = "catalog:export"
	TypeExportPrune    = "catalog:export-prune"
)

// Queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// RefreshPayload names the domain whose catalog should be refetched.
type RefreshPayload struct {
	Domain string `json:"domain"`
}

// ExportPayload describes a workbook export of a filtered, sorted catalog.
type ExportPayload struct {
	Domain      string           `json:"domain"`
	Query       domain.QuerySpec `json:"query"`
	RequestedAt time.Time        `json:"requested_at"`
}

// PrunePayload optionally overrides the export retention.
type PrunePayload struct {
	MaxAge time.Duration `json:"max_age,omitempty"`
}

// NewRefreshTask builds a catalog refresh task. Identical refreshes are unique
// for a minute, so a burst of requests collapses into one queued job.
func NewRefreshTask(domainName string, opts ...asynq.Option) (*asynq.Task, error) {
	domainName = strings.TrimSpace(domainName)
	if domainName == "" {
		return nil, fmt.Errorf("refresh task needs a domain")
	}
	payload, err := json.Marshal(RefreshPayload{Domain: domainName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh payload: %w", err)
	}
	defaults := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		asynq.Unique(time.Minute),
	}
	return asynq.NewTask(TypeCatalogRefresh, payload, append(defaults, opts...)...), nil
}

// NewExportTask builds a catalog export task.
func NewExportTask(p ExportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	if strings.TrimSpace(p.Domain) == "" {
		return nil, fmt.Errorf("export task needs a domain")
	}
	if p.RequestedAt.IsZero() {
		p.RequestedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}
	defaults := []asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TypeCatalogExport, payload, append(defaults, opts...)...), nil
}

// NewPruneTask builds an export prune task.
func NewPruneTask(p PrunePayload, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prune payload: %w", err)
	}
	defaults := []asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Hour),
	}
	return asynq.NewTask(TypeExportPrune, payload, append(defaults, opts...)...), nil
}
