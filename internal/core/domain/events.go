// internal/core/domain/events.go
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LoadState is the catalog load lifecycle reported to listeners.
type LoadState string

const (
	LoadStateIdle    LoadState = "idle"
	LoadStateLoading LoadState = "loading"
	LoadStateReady   LoadState = "ready"
	LoadStateError   LoadState = "error"
)

const OfflineNotice = "Using offline data"

// LoadDetail accompanies a load state change.
type LoadDetail struct {
	SourceRef string        `json:"source_ref,omitempty"`
	Degraded  bool          `json:"degraded"`
	Notice    string        `json:"notice,omitempty"`
	Message   string        `json:"message,omitempty"`
	Kind      LoadErrorKind `json:"kind,omitempty"`
	Retryable bool          `json:"retryable"`
	ItemCount int           `json:"item_count"`
	Rejected  int           `json:"rejected"`
}

// ButtonKind tells a renderer how to draw a pagination control.
type ButtonKind string

const (
	ButtonPrev     ButtonKind = "prev"
	ButtonNext     ButtonKind = "next"
	ButtonPage     ButtonKind = "page"
	ButtonEllipsis ButtonKind = "ellipsis"
)

// PageButton is one pagination control. Page is nil for ellipsis markers.
type PageButton struct {
	Label    string     `json:"label"`
	Page     *int       `json:"page"`
	Active   bool       `json:"active"`
	Disabled bool       `json:"disabled"`
	Kind     ButtonKind `json:"kind"`
}

// PaginationModel is the full control strip. Hidden is set when there is at
// most one page, in which case Buttons is empty.
type PaginationModel struct {
	Buttons     []PageButton `json:"buttons"`
	Hidden      bool         `json:"hidden"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
}

// ResultsPage is the visible slice of the filtered and sorted list.
type ResultsPage struct {
	Items          []Item    `json:"items"`
	Page           int       `json:"page"`
	PageSize       int       `json:"page_size"`
	TotalPages     int       `json:"total_pages"`
	TotalCount     int       `json:"total_count"`
	From           int       `json:"from"`
	To             int       `json:"to"`
	SortKey        SortKey   `json:"sort_key"`
	Query          QuerySpec `json:"query"`
	ScrollIntoView bool      `json:"scroll_into_view"`
}

// ShowingLabel renders the "Showing X–Y of N" caption. An empty catalog never
// reaches a results page; it surfaces through LoadDetail instead.
func (r ResultsPage) ShowingLabel() string {
	if r.TotalCount == 0 {
		return "No items match your search"
	}
	return fmt.Sprintf("Showing %d–%d of %d", r.From, r.To, r.TotalCount)
}

// PageRequestKind distinguishes relative and absolute navigation.
type PageRequestKind string

const (
	PagePrev PageRequestKind = "prev"
	PageNext PageRequestKind = "next"
	PageGoto PageRequestKind = "goto"
)

// PageRequest is a navigation request from pagination controls.
type PageRequest struct {
	Kind PageRequestKind `json:"kind"`
	Page int             `json:"page,omitempty"`
}

func PrevPage() PageRequest      { return PageRequest{Kind: PagePrev} }
func NextPage() PageRequest      { return PageRequest{Kind: PageNext} }
func GotoPage(n int) PageRequest { return PageRequest{Kind: PageGoto, Page: n} }

// ParsePageRequest accepts "prev", "next" or a page number.
func ParsePageRequest(s string) (PageRequest, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "prev", "previous":
		return PrevPage(), nil
	case "next":
		return NextPage(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return PageRequest{}, fmt.Errorf("invalid page request %q", s)
	}
	return GotoPage(n), nil
}

// ShelfKind names a shopper-owned list.
type ShelfKind string

const (
	ShelfCart     ShelfKind = "cart"
	ShelfWishlist ShelfKind = "wishlist"
)

// ParseShelfKind validates a shelf name.
func ParseShelfKind(s string) (ShelfKind, error) {
	switch k := ShelfKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ShelfCart, ShelfWishlist:
		return k, nil
	}
	return "", fmt.Errorf("unknown shelf %q", s)
}

// ShelfAction is what happened to an item on a shelf.
type ShelfAction string

const (
	ShelfAdded   ShelfAction = "added"
	ShelfRemoved ShelfAction = "removed"
)

// ShelfEvent is emitted when an item is added to or removed from a shelf.
type ShelfEvent struct {
	ShopperID string      `json:"shopper_id"`
	Domain    string      `json:"domain"`
	Shelf     ShelfKind   `json:"shelf"`
	Action    ShelfAction `json:"action"`
	ItemID    string      `json:"item_id"`
	Title     string      `json:"title,omitempty"`
	Quantity  int         `json:"quantity"`
	At        time.Time   `json:"at"`
}
