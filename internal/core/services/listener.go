// internal/core/services/listener.go
package services

import (
	"context"
	"maps"
	"sync"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// NopListener discards every notification.
type NopListener struct{}

var _ ports.ResultsListener = NopListener{}

func (NopListener) OnResultsReady(context.Context, domain.ResultsPage)                      {}
func (NopListener) OnPaginationModel(context.Context, domain.PaginationModel)               {}
func (NopListener) OnLoadStateChanged(context.Context, domain.LoadState, domain.LoadDetail) {}
func (NopListener) OnFilterOptionsDiscovered(context.Context, domain.FilterName, []string)  {}

// ViewSnapshot is the latest of each notification an engine produced.
type ViewSnapshot struct {
	LoadState  domain.LoadState               `json:"load_state"`
	LoadDetail domain.LoadDetail              `json:"load_detail"`
	Results    *domain.ResultsPage            `json:"results,omitempty"`
	Showing    string                         `json:"showing,omitempty"`
	Pagination *domain.PaginationModel        `json:"pagination,omitempty"`
	Options    map[domain.FilterName][]string `json:"filter_options,omitempty"`
}

// ViewRecorder keeps the most recent notifications so a request/response
// transport can return them in one body.
type ViewRecorder struct {
	mu      sync.Mutex
	snap    ViewSnapshot
	results int
}

var _ ports.ResultsListener = (*ViewRecorder)(nil)

// NewViewRecorder creates an empty recorder.
func NewViewRecorder() *ViewRecorder {
	return &ViewRecorder{snap: ViewSnapshot{LoadState: domain.LoadStateIdle}}
}

func (r *ViewRecorder) OnResultsReady(_ context.Context, page domain.ResultsPage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Results = &page
	r.snap.Showing = page.ShowingLabel()
	r.results++
}

func (r *ViewRecorder) OnPaginationModel(_ context.Context, model domain.PaginationModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Pagination = &model
}

func (r *ViewRecorder) OnLoadStateChanged(_ context.Context, state domain.LoadState, detail domain.LoadDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.LoadState = state
	r.snap.LoadDetail = detail
}

func (r *ViewRecorder) OnFilterOptionsDiscovered(_ context.Context, filter domain.FilterName, values []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap.Options == nil {
		r.snap.Options = make(map[domain.FilterName][]string)
	}
	r.snap.Options[filter] = values
}

// Snapshot returns a copy of the recorded view.
func (r *ViewRecorder) Snapshot() ViewSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.snap
	s.Options = maps.Clone(r.snap.Options)
	return s
}

// ResultsCount is how many result pages have been delivered.
func (r *ViewRecorder) ResultsCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results
}
