// internal/handlers/jobs.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/workers"
)

// TaskEnqueuer is the part of *asynq.Client the job endpoints use.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskInspector is the part of *asynq.Inspector the job endpoints use.
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// JobsHandler queues background refreshes and exports and reports on them.
type JobsHandler struct {
	responder
	catalogs  ports.CatalogService
	client    TaskEnqueuer
	inspector TaskInspector
	now       func() time.Time
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(catalogs ports.CatalogService, client TaskEnqueuer, inspector TaskInspector, logger *slog.Logger) *JobsHandler {
	return &JobsHandler{
		responder: responder{logger: logger.With(slog.String("handler", "jobs"))},
		catalogs:  catalogs,
		client:    client,
		inspector: inspector,
		now:       time.Now,
	}
}

// JobStatus describes a queued or finished task.
type JobStatus struct {
	ID          string          `json:"job_id"`
	Queue       string          `json:"queue"`
	Type        string          `json:"type"`
	State       string          `json:"status"`
	Retried     int             `json:"retried"`
	MaxRetry    int             `json:"max_retry"`
	LastError   string          `json:"last_error,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

func jobStatus(info *asynq.TaskInfo) JobStatus {
	st := JobStatus{
		ID:        info.ID,
		Queue:     info.Queue,
		Type:      info.Type,
		State:     info.State.String(),
		Retried:   info.Retried,
		MaxRetry:  info.MaxRetry,
		LastError: info.LastErr,
	}
	if !info.CompletedAt.IsZero() {
		t := info.CompletedAt
		st.CompletedAt = &t
	}
	if len(info.Result) > 0 && json.Valid(info.Result) {
		st.Result = json.RawMessage(info.Result)
	}
	return st
}

func (h *JobsHandler) knownDomain(name string) bool {
	for _, c := range h.catalogs.Domains() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// QueueRefresh handles POST /api/v1/jobs/refresh/{domain}
func (h *JobsHandler) QueueRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("domain")
	if !h.knownDomain(name) {
		h.respondServiceError(r, w, domain.ErrUnknownDomain, "")
		return
	}

	task, err := workers.NewRefreshTask(name)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			h.respondError(w, http.StatusConflict, "A refresh of "+name+" is already queued")
			return
		}
		h.logger.ErrorContext(ctx, "failed to enqueue refresh",
			slog.String("domain", name),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue refresh")
		return
	}

	h.logger.InfoContext(ctx, "catalog refresh queued",
		slog.String("domain", name),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  info.ID,
		"queue":   info.Queue,
		"status":  "queued",
		"message": "Catalog refresh has been queued",
	})
}

// QueueExport handles POST /api/v1/jobs/export/{domain}. The request body is
// an optional QueryRequest; the workbook is written by a worker.
func (h *JobsHandler) QueueExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("domain")
	if !h.knownDomain(name) {
		h.respondServiceError(r, w, domain.ErrUnknownDomain, "")
		return
	}

	var req QueryRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	spec, err := req.ToSpec()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := workers.NewExportTask(workers.ExportPayload{
		Domain:      name,
		Query:       spec,
		RequestedAt: h.now().UTC(),
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.client.EnqueueContext(ctx, task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue export",
			slog.String("domain", name),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	h.logger.InfoContext(ctx, "catalog export queued",
		slog.String("domain", name),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  info.ID,
		"queue":   info.Queue,
		"status":  "queued",
		"message": "Catalog export has been queued",
	})
}

// JobStatus handles GET /api/v1/jobs/{queue}/{id}
func (h *JobsHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queue, id := r.PathValue("queue"), r.PathValue("id")

	info, err := h.inspector.GetTaskInfo(queue, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			h.respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get job status",
			slog.String("job_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	h.respondJSON(w, http.StatusOK, jobStatus(info))
}
