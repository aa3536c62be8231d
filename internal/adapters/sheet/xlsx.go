// internal/adapters/sheet/xlsx.go
package sheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Headers returns the column titles for a domain, using its creator and
// secondary-group labels.
func Headers(cfg *domain.DomainConfig) []string {
	secondary := cfg.SecondaryLabel
	if secondary == "" {
		secondary = "Group"
	}
	return []string{
		"ID", "Title", cfg.CreatorLabel, "Category", secondary,
		"Price", "Original Price", "Discount %", "Rating", "Popularity",
		"Release Date", "Badge",
	}
}

// Row renders one item in Headers order. Prices are shown in the domain's
// currency with its number of decimal places.
func Row(cfg *domain.DomainConfig, it domain.Item) []string {
	exp := cfg.CurrencyExponent
	original := ""
	if it.OriginalPrice != nil {
		original = domain.PriceDecimal(*it.OriginalPrice, exp).StringFixed(exp)
	}
	discount := ""
	if it.OnSale() {
		discount = strconv.FormatInt(it.DiscountPercent(), 10)
	}
	released := ""
	if !it.ReleaseDate.IsZero() {
		released = it.ReleaseDate.Format(dateLayout)
	}
	return []string{
		it.ID,
		it.Title,
		it.Creator,
		it.Category,
		it.SecondaryGroup,
		domain.PriceDecimal(it.Price, exp).StringFixed(exp),
		original,
		discount,
		strconv.FormatFloat(it.Rating, 'f', 1, 64),
		strconv.Itoa(it.Popularity),
		released,
		it.Badge,
	}
}

// Build writes items to a single-sheet workbook named after the domain.
func Build(cfg *domain.DomainConfig, items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	name := cfg.Title
	if name == "" {
		name = cfg.Name
	}
	s, err := file.AddSheet(sheetName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := Headers(cfg)
	headerRow := s.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, it := range items {
		row := s.AddRow()
		for _, v := range Row(cfg, it) {
			row.AddCell().Value = v
		}
	}

	for i := 1; i <= len(headers); i++ {
		s.SetColWidth(i, i, 18)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName trims to the 31 characters xlsx allows and drops forbidden runes.
func sheetName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Catalog"
	}
	return string(out)
}
