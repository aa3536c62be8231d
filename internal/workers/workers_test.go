// internal/workers/workers_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/storefront-catalog/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/workers"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func TestNewRefreshTask(t *testing.T) {
	task, err := workers.NewRefreshTask(" books ")
	require.NoError(t, err)
	assert.Equal(t, workers.TypeCatalogRefresh, task.Type())

	var p workers.RefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "books", p.Domain)

	_, err = workers.NewRefreshTask("  ")
	assert.Error(t, err)
}

func TestRefreshProcessor_ProcessRefresh(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		lockHeld   bool
		setupMocks func(m *mocks.MockCatalogService)
		wantErr    bool
		skipRetry  bool
	}{
		{
			name:    "reloads_domain",
			payload: []byte(`{"domain":"books"}`),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().Reload(gomock.Any(), "books").
					Return(&ports.ReloadResult{Domain: "books", ItemCount: 12, Version: 3}, nil)
			},
		},
		{
			name:     "skips_when_locked",
			payload:  []byte(`{"domain":"books"}`),
			lockHeld: true,
		},
		{
			name:    "source_failure_is_retried",
			payload: []byte(`{"domain":"books"}`),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().Reload(gomock.Any(), "books").
					Return(nil, domain.ErrEmptyCatalog)
			},
			wantErr: true,
		},
		{
			name:    "unknown_domain_is_not_retried",
			payload: []byte(`{"domain":"garden"}`),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().Reload(gomock.Any(), "garden").
					Return(nil, domain.ErrUnknownDomain)
			},
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "bad_payload",
			payload:   []byte(`{`),
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "missing_domain",
			payload:   []byte(`{}`),
			wantErr:   true,
			skipRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockCatalogService(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}

			rdb := helpers.SetupTestRedis(t)
			cache := redis_a.NewCache(rdb.Client, time.Minute, helpers.TestLogger())
			lockKey := redis_a.BuildKey(redis_a.PrefixLock, workers.TypeCatalogRefresh, "books")
			if tt.lockHeld {
				require.NoError(t, rdb.Server.Set(lockKey, `"other"`))
			}

			p := workers.NewRefreshProcessor(svc, cache, helpers.TestLogger())
			err := p.ProcessRefresh(context.Background(), asynq.NewTask(workers.TypeCatalogRefresh, tt.payload))

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.lockHeld, rdb.Server.Exists(lockKey), "lock is released after the run")
		})
	}
}

func TestExportProcessor_ProcessExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockCatalogService(ctrl)

	cfg := helpers.DomainConfig(t)
	items := helpers.NumberedItems(3)
	query := domain.QuerySpec{SortKey: domain.SortPriceHigh}

	svc.EXPECT().Domains().Return([]domain.DomainConfig{cfg})
	svc.EXPECT().Query(gomock.Any(), "books", ports.QueryParams{Query: query, All: true}).
		Return(&ports.QueryResult{Items: items, TotalCount: 3}, nil)

	dir := t.TempDir()
	p := workers.NewExportProcessor(svc, workers.NewDirSink(dir), helpers.TestLogger())

	task, err := workers.NewExportTask(workers.ExportPayload{Domain: "books", Query: query, RequestedAt: helpers.Fixed})
	require.NoError(t, err)
	require.NoError(t, p.ProcessExport(context.Background(), asynq.NewTask(task.Type(), task.Payload())))

	path := filepath.Join(dir, filepath.FromSlash(workers.ExportKey("books", helpers.Fixed)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	wb, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	assert.Equal(t, 4, wb.Sheets[0].MaxRow)
}

func TestExportProcessor_UnknownDomain(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockCatalogService(ctrl)
	svc.EXPECT().Domains().Return(nil)

	p := workers.NewExportProcessor(svc, workers.NewDirSink(t.TempDir()), helpers.TestLogger())
	err := p.ProcessExport(context.Background(), asynq.NewTask(workers.TypeCatalogExport, []byte(`{"domain":"garden"}`)))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestObjectSink_Put(t *testing.T) {
	up := &fakeUploader{}
	loc, err := workers.NewObjectSink(up).Put(context.Background(), "exports/books/x.xlsx", []byte("data"), "application/test")
	require.NoError(t, err)

	assert.Equal(t, "s3://bucket/exports/books/x.xlsx", loc)
	assert.Equal(t, "data", up.body)
	assert.Equal(t, "application/test", up.contentType)
}

type fakeUploader struct {
	body, contentType string
}

func (f *fakeUploader) Upload(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.body = string(b)
	f.contentType = contentType
	return "s3://bucket/" + key, nil
}

func TestPruneProcessor_ProcessPrune(t *testing.T) {
	old := time.Now().Add(-96 * time.Hour)

	tests := []struct {
		name        string
		payload     []byte
		retention   time.Duration
		wantRemoved []string
		wantKept    []string
		wantErr     error
	}{
		{
			name:        "removes_expired_exports",
			retention:   72 * time.Hour,
			wantRemoved: []string{"books/old.xlsx"},
			wantKept:    []string{"books/new.xlsx"},
		},
		{
			name:        "payload_overrides_retention",
			payload:     []byte(`{"max_age":3600000000000}`),
			retention:   200 * time.Hour,
			wantRemoved: []string{"books/old.xlsx"},
			wantKept:    []string{"books/new.xlsx"},
		},
		{
			name:     "zero_retention_disables",
			wantKept: []string{"books/old.xlsx", "books/new.xlsx"},
		},
		{
			name:      "bad_payload",
			payload:   []byte(`{`),
			retention: time.Hour,
			wantKept:  []string{"books/old.xlsx", "books/new.xlsx"},
			wantErr:   asynq.SkipRetry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, name := range []string{"books/old.xlsx", "books/new.xlsx"} {
				path := filepath.Join(root, filepath.FromSlash(name))
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
			}
			require.NoError(t, os.Chtimes(filepath.Join(root, "books", "old.xlsx"), old, old))

			p := workers.NewPruneProcessor(root, tt.retention, helpers.TestLogger())
			err := p.ProcessPrune(context.Background(), asynq.NewTask(workers.TypeExportPrune, tt.payload))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			for _, name := range tt.wantRemoved {
				assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(name)))
			}
			for _, name := range tt.wantKept {
				assert.FileExists(t, filepath.Join(root, filepath.FromSlash(name)))
			}
		})
	}

	t.Run("missing_directory", func(t *testing.T) {
		p := workers.NewPruneProcessor(filepath.Join(t.TempDir(), "none"), time.Hour, helpers.TestLogger())
		assert.NoError(t, p.ProcessPrune(context.Background(), asynq.NewTask(workers.TypeExportPrune, nil)))
	})
}

func TestNewPruneTask(t *testing.T) {
	task, err := workers.NewPruneTask(workers.PrunePayload{MaxAge: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, workers.TypeExportPrune, task.Type())

	var p workers.PrunePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, time.Hour, p.MaxAge)
}
