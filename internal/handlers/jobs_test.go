// internal/handlers/jobs_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/handlers"
	"github.com/ammerola/storefront-catalog/internal/workers"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
	infos map[string]*asynq.TaskInfo
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "default", Type: task.Type()}, nil
}

func (q *fakeQueue) GetTaskInfo(queue, id string) (*asynq.TaskInfo, error) {
	info, ok := q.infos[queue+"/"+id]
	if !ok {
		return nil, asynq.ErrTaskNotFound
	}
	return info, nil
}

func newJobsHandler(t *testing.T, q *fakeQueue) *handlers.JobsHandler {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockCatalogService(ctrl)
	svc.EXPECT().Domains().Return([]domain.DomainConfig{helpers.DomainConfig(t)}).AnyTimes()
	return handlers.NewJobsHandler(svc, q, q, helpers.TestLogger())
}

func TestJobsHandler_QueueRefresh(t *testing.T) {
	tests := []struct {
		name           string
		domain         string
		enqueueErr     error
		expectedStatus int
		queued         int
	}{
		{name: "queues_refresh", domain: "books", expectedStatus: http.StatusAccepted, queued: 1},
		{name: "unknown_domain", domain: "garden", expectedStatus: http.StatusNotFound},
		{name: "already_queued", domain: "books", enqueueErr: asynq.ErrDuplicateTask, expectedStatus: http.StatusConflict},
		{name: "broker_down", domain: "books", enqueueErr: errors.New("dial tcp: refused"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQueue{err: tt.enqueueErr}
			h := newJobsHandler(t, q)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/refresh/"+tt.domain, nil)
			req.SetPathValue("domain", tt.domain)
			w := httptest.NewRecorder()
			h.QueueRefresh(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			require.Len(t, q.tasks, tt.queued)
			if tt.queued > 0 {
				assert.Equal(t, workers.TypeCatalogRefresh, q.tasks[0].Type())
				assert.JSONEq(t, `{"domain":"books"}`, string(q.tasks[0].Payload()))
			}
		})
	}
}

func TestJobsHandler_QueueExport(t *testing.T) {
	q := &fakeQueue{}
	h := newJobsHandler(t, q)

	body := `{"search":"dragon","filters":{"author":"Le Guin"},"sort":"title"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/export/books", strings.NewReader(body))
	req.SetPathValue("domain", "books")
	w := httptest.NewRecorder()
	h.QueueExport(w, req)

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Len(t, q.tasks, 1)
	assert.Equal(t, workers.TypeCatalogExport, q.tasks[0].Type())

	var payload workers.ExportPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "books", payload.Domain)
	assert.Equal(t, domain.QuerySpec{
		SearchText: "dragon",
		Filters:    map[domain.FilterName]string{domain.FilterCreator: "Le Guin"},
		SortKey:    domain.SortTitle,
	}, payload.Query)
	assert.False(t, payload.RequestedAt.IsZero())

	// an empty body exports the whole catalog
	req = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/export/books", nil)
	req.SetPathValue("domain", "books")
	w = httptest.NewRecorder()
	h.QueueExport(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/export/books", strings.NewReader(`{"filters":{"colour":"red"}}`))
	req.SetPathValue("domain", "books")
	w = httptest.NewRecorder()
	h.QueueExport(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobsHandler_JobStatus(t *testing.T) {
	q := &fakeQueue{infos: map[string]*asynq.TaskInfo{
		"default/task-1": {
			ID:       "task-1",
			Queue:    "default",
			Type:     workers.TypeCatalogRefresh,
			State:    asynq.TaskStateCompleted,
			MaxRetry: 3,
			Result:   []byte(`{"domain":"books","item_count":12}`),
		},
	}}
	h := newJobsHandler(t, q)

	tests := []struct {
		name           string
		queue, id      string
		expectedStatus int
	}{
		{name: "completed_task", queue: "default", id: "task-1", expectedStatus: http.StatusOK},
		{name: "unknown_task", queue: "default", id: "task-2", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+tt.queue+"/"+tt.id, nil)
			req.SetPathValue("queue", tt.queue)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			h.JobStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var st handlers.JobStatus
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
				assert.Equal(t, "completed", st.State)
				assert.JSONEq(t, `{"domain":"books","item_count":12}`, string(st.Result))
			}
		})
	}
}
