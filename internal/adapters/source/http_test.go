// internal/adapters/source/http_test.go
package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/adapters/source"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/test/helpers"
)

func newHTTPSource() *source.HTTPSource {
	return source.NewHTTPSource(source.HTTPConfig{
		Timeout:     time.Second,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	}, helpers.TestLogger())
}

func TestHTTPSource_Fetch(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   string
	}{
		{
			name:      "ok",
			statuses:  []int{http.StatusOK},
			wantCalls: 1,
		},
		{
			name:      "retries_server_errors",
			statuses:  []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusOK},
			wantCalls: 3,
		},
		{
			name:      "retries_rate_limiting",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:      "gives_up_after_retries",
			statuses:  []int{http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError},
			wantCalls: 3,
			wantErr:   "HTTP 500",
		},
		{
			name:      "client_error_is_not_retried",
			statuses:  []int{http.StatusNotFound},
			wantCalls: 1,
			wantErr:   "HTTP 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				status := tt.statuses[len(tt.statuses)-1]
				if int(n) <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(`{"books":[]}`))
					return
				}
				_, _ = w.Write([]byte("upstream says no"))
			}))
			defer srv.Close()

			got, err := newHTTPSource().Fetch(context.Background(), srv.URL+"/books.json")

			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, `{"books":[]}`, string(got))
		})
	}
}

func TestHTTPSource_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := source.NewHTTPSource(source.HTTPConfig{MaxRetries: 5, BaseBackoff: time.Hour}, helpers.TestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPSource_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	src := source.NewHTTPSource(source.HTTPConfig{RatePerSec: 20}, helpers.TestLogger())
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 41; i++ {
		_, err := src.Fetch(ctx, srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}
