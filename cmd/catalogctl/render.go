// cmd/catalogctl/render.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/services"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

func renderDomains(w io.Writer, format string, cfgs []domain.DomainConfig) error {
	if format == formatJSON {
		return renderJSON(w, cfgs)
	}
	tw := newTable(w, []string{"DOMAIN", "TITLE", "SOURCE", "FILTERS", "SORT", "GRID", "LIST"})
	for _, c := range cfgs {
		filters := make([]string, len(c.Filters))
		for i, f := range c.Filters {
			filters[i] = string(f)
		}
		tw.Append([]string{
			c.Name,
			c.Title,
			c.SourceRef,
			strings.Join(filters, ","),
			string(c.DefaultSort),
			strconv.Itoa(c.PageSizes.Grid),
			strconv.Itoa(c.PageSizes.List),
		})
	}
	tw.Render()
	return nil
}

func renderStatus(w io.Writer, format string, statuses []services.CatalogStatus) error {
	if format == formatJSON {
		return renderJSON(w, statuses)
	}
	tw := newTable(w, []string{"DOMAIN", "STATE", "ITEMS", "VERSION", "LOADED AT", "LAST ERROR"})
	for _, st := range statuses {
		loadedAt := ""
		if !st.LoadedAt.IsZero() {
			loadedAt = st.LoadedAt.Format("2006-01-02 15:04:05")
		}
		tw.Append([]string{
			st.Domain,
			catalogState(st),
			strconv.Itoa(st.Items),
			strconv.FormatUint(st.Version, 10),
			loadedAt,
			st.LastError,
		})
	}
	tw.Render()
	return nil
}

func catalogState(st services.CatalogStatus) string {
	switch {
	case !st.Loaded:
		return "unavailable"
	case st.Degraded:
		return "fallback"
	default:
		return "ok"
	}
}

// formatPrice renders a minor-unit amount, with the sale discount when the
// item has one.
func formatPrice(it domain.Item, exponent int32) string {
	price := domain.PriceDecimal(it.Price, exponent).StringFixed(exponent)
	if it.OnSale() {
		orig := domain.PriceDecimal(*it.OriginalPrice, exponent).StringFixed(exponent)
		return fmt.Sprintf("%s (was %s, -%d%%)", price, orig, it.DiscountPercent())
	}
	return price
}

func renderResult(w io.Writer, format string, res *ports.QueryResult, exponent int32) error {
	if format == formatJSON {
		return renderJSON(w, res)
	}

	if res.TotalCount == 0 {
		fmt.Fprintln(w, "No items match the current filters.")
		return nil
	}

	tw := newTable(w, []string{"ID", "TITLE", "CREATOR", "CATEGORY", "PRICE", "RATING", "BADGE"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	for _, it := range res.Items {
		tw.Append([]string{
			it.ID,
			it.Title,
			it.Creator,
			it.Category,
			formatPrice(it, exponent),
			strconv.FormatFloat(it.Rating, 'f', 1, 64),
			it.Badge,
		})
	}
	tw.Render()

	fmt.Fprintln(w, res.Showing)
	if strip := paginationStrip(res.Pagination); strip != "" {
		fmt.Fprintln(w, strip)
	}
	if res.Degraded {
		fmt.Fprintln(w, "(showing fallback catalog data)")
	}
	return nil
}

// paginationStrip renders the control strip on one line. The active page is
// bracketed and disabled controls are dropped.
func paginationStrip(p domain.PaginationModel) string {
	if p.Hidden {
		return ""
	}
	parts := make([]string, 0, len(p.Buttons))
	for _, b := range p.Buttons {
		switch {
		case b.Active:
			parts = append(parts, "["+b.Label+"]")
		case b.Disabled && b.Kind != domain.ButtonEllipsis:
			continue
		default:
			parts = append(parts, b.Label)
		}
	}
	return strings.Join(parts, " ")
}

func renderOptions(w io.Writer, format string, opts map[domain.FilterName][]string) error {
	if format == formatJSON {
		return renderJSON(w, opts)
	}
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, string(name))
	}
	sort.Strings(names)

	tw := newTable(w, []string{"FILTER", "VALUES"})
	tw.SetAutoWrapText(true)
	tw.SetColWidth(80)
	for _, name := range names {
		tw.Append([]string{name, strings.Join(opts[domain.FilterName(name)], ", ")})
	}
	tw.Render()
	return nil
}

func renderShelf(w io.Writer, format string, shelf domain.ShelfKind, entries []ports.ShelfEntry) error {
	if format == formatJSON {
		return renderJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "The %s is empty.\n", shelf)
		return nil
	}
	tw := newTable(w, []string{"DOMAIN", "ITEM", "QTY"})
	total := 0
	for _, e := range entries {
		total += e.Quantity
		tw.Append([]string{e.Domain, e.ItemID, strconv.Itoa(e.Quantity)})
	}
	tw.SetFooter([]string{"", "TOTAL", strconv.Itoa(total)})
	tw.Render()
	return nil
}

func renderShelfEvent(w io.Writer, format string, ev *domain.ShelfEvent) error {
	if format == formatJSON {
		return renderJSON(w, ev)
	}
	title := ev.Title
	if title == "" {
		title = ev.ItemID
	}
	switch ev.Action {
	case domain.ShelfRemoved:
		fmt.Fprintf(w, "Removed %q from %s\n", title, ev.Shelf)
	default:
		fmt.Fprintf(w, "Added %q to %s (quantity %d)\n", title, ev.Shelf, ev.Quantity)
	}
	return nil
}
