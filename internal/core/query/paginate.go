// internal/core/query/paginate.go
package query

import (
	"strconv"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// TotalPages is ceil(count/pageSize); zero items means zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginator tracks the current page of a list whose length may change.
// The current page always lies in [1, max(totalPages, 1)].
type Paginator struct {
	pageSize int
	window   int
	count    int
	current  int
}

// NewPaginator returns a paginator on page 1. Non-positive window sizes use
// the default window.
func NewPaginator(pageSize, window int) *Paginator {
	if pageSize <= 0 {
		pageSize = 1
	}
	if window <= 0 {
		window = domain.DefaultWindow
	}
	return &Paginator{pageSize: pageSize, window: window, current: 1}
}

func (p *Paginator) Page() int       { return p.current }
func (p *Paginator) PageSize() int   { return p.pageSize }
func (p *Paginator) Count() int      { return p.count }
func (p *Paginator) TotalPages() int { return TotalPages(p.count, p.pageSize) }

func (p *Paginator) lastPage() int {
	return max(p.TotalPages(), 1)
}

func (p *Paginator) clamp() {
	p.current = min(max(p.current, 1), p.lastPage())
}

// SetCount records a new list length and clamps the current page into range.
func (p *Paginator) SetCount(n int) {
	p.count = max(n, 0)
	p.clamp()
}

// SetPageSize changes the page size and clamps. It returns false for
// non-positive sizes, which are ignored.
func (p *Paginator) SetPageSize(n int) bool {
	if n <= 0 {
		return false
	}
	p.pageSize = n
	p.clamp()
	return true
}

// Reset returns to page 1.
func (p *Paginator) Reset() {
	p.current = 1
}

// Restore jumps to page, clamping rather than ignoring out-of-range values.
func (p *Paginator) Restore(page int) {
	p.current = page
	p.clamp()
}

// Goto moves to page n. Out-of-range pages and the current page are no-ops and
// return false.
func (p *Paginator) Goto(n int) bool {
	if n < 1 || n > p.TotalPages() || n == p.current {
		return false
	}
	p.current = n
	return true
}

func (p *Paginator) Next() bool { return p.Goto(p.current + 1) }
func (p *Paginator) Prev() bool { return p.Goto(p.current - 1) }

// Apply dispatches a navigation request.
func (p *Paginator) Apply(req domain.PageRequest) bool {
	switch req.Kind {
	case domain.PagePrev:
		return p.Prev()
	case domain.PageNext:
		return p.Next()
	case domain.PageGoto:
		return p.Goto(req.Page)
	}
	return false
}

// Bounds returns the half-open slice range of the current page, clipped to the list.
func (p *Paginator) Bounds() (start, end int) {
	start = min((p.current-1)*p.pageSize, p.count)
	end = min(start+p.pageSize, p.count)
	return start, end
}

// WindowRange returns the first and last page numbers of a window of width
// buttons centred on current. Near either edge the window shifts so it keeps
// its width without leaving [1, total].
func WindowRange(current, total, width int) (first, last int) {
	if total <= 0 {
		return 1, 0
	}
	if width <= 0 || width >= total {
		return 1, total
	}
	first = current - width/2
	first = max(first, 1)
	first = min(first, total-width+1)
	return first, first + width - 1
}

// Model builds the pagination controls for the current state.
func (p *Paginator) Model() domain.PaginationModel {
	total := p.TotalPages()
	model := domain.PaginationModel{CurrentPage: p.current, TotalPages: total}
	if total <= 1 {
		model.Hidden = true
		model.Buttons = []domain.PageButton{}
		return model
	}

	first, last := WindowRange(p.current, total, p.window)
	buttons := make([]domain.PageButton, 0, p.window+6)

	prev := domain.PageButton{Label: "Previous", Disabled: p.current == 1, Kind: domain.ButtonPrev}
	if !prev.Disabled {
		prev.Page = pageRef(p.current - 1)
	}
	buttons = append(buttons, prev)

	if first > 1 {
		buttons = append(buttons, p.pageButton(1))
		if first > 2 {
			buttons = append(buttons, ellipsis())
		}
	}
	for n := first; n <= last; n++ {
		buttons = append(buttons, p.pageButton(n))
	}
	if last < total {
		if last < total-1 {
			buttons = append(buttons, ellipsis())
		}
		buttons = append(buttons, p.pageButton(total))
	}

	next := domain.PageButton{Label: "Next", Disabled: p.current == total, Kind: domain.ButtonNext}
	if !next.Disabled {
		next.Page = pageRef(p.current + 1)
	}
	buttons = append(buttons, next)

	model.Buttons = buttons
	return model
}

func (p *Paginator) pageButton(n int) domain.PageButton {
	return domain.PageButton{
		Label:  strconv.Itoa(n),
		Page:   pageRef(n),
		Active: n == p.current,
		Kind:   domain.ButtonPage,
	}
}

func ellipsis() domain.PageButton {
	return domain.PageButton{Label: "…", Disabled: true, Kind: domain.ButtonEllipsis}
}

func pageRef(n int) *int {
	return &n
}
