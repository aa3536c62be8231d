package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

func booksConfig(t *testing.T) *domain.DomainConfig {
	t.Helper()
	cfg := domain.DomainConfig{
		Name:         "kids",
		Filters:      []domain.FilterName{domain.FilterCategory, domain.FilterSecondaryGroup, domain.FilterCreator, domain.FilterPrice},
		PriceBuckets: []string{"0-199", "200-499", "500-999", "1000+"},
		PageSizes:    domain.PageSizes{Grid: 9, List: 8},
		DefaultSort:  domain.SortFeatured,
	}
	require.NoError(t, cfg.Validate())
	return &cfg
}

// twelveItems has four Science titles among twelve.
func twelveItems() []domain.Item {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []domain.Item{
		{ID: "1", Title: "Visual Mathematics", Creator: "R. Rao", Category: "Math", Price: 450, Rating: 4.5, Popularity: 80, ReleaseDate: day(1), Badge: "Bestseller"},
		{ID: "2", Title: "Physics Heroes", Creator: "A. Khan", Category: "Science", Price: 300, Rating: 4.1, Popularity: 60, ReleaseDate: day(2)},
		{ID: "3", Title: "Space Atlas", Creator: "M. Lee", Category: "Science", Price: 899, Rating: 4.8, Popularity: 95, ReleaseDate: day(3), Badge: "New"},
		{ID: "4", Title: "Dinosaur Days", Creator: "P. Shah", Category: "Science", Price: 150, Rating: 3.9, Popularity: 40, ReleaseDate: day(4), SecondaryGroup: "3-5"},
		{ID: "5", Title: "Color Me Happy", Creator: "L. Gomez", Category: "Art", Price: 120, Rating: 4.0, Popularity: 55, ReleaseDate: day(5), SecondaryGroup: "3-5"},
		{ID: "6", Title: "Story Time", Creator: "E. Blyton", Category: "Fiction", Price: 250, Rating: 4.6, Popularity: 70, ReleaseDate: day(6), Badge: "Popular"},
		{ID: "7", Title: "Little Chemists", Creator: "S. Iyer", Category: "Science", Price: 600, Rating: 4.2, Popularity: 50, ReleaseDate: day(7), SecondaryGroup: "9-12"},
		{ID: "8", Title: "Counting Fun", Creator: "R. Rao", Category: "Math", Price: 99, Rating: 3.5, Popularity: 30, ReleaseDate: day(8), SecondaryGroup: "3-5"},
		{ID: "9", Title: "Ocean Tales", Creator: "M. Lee", Category: "Fiction", Price: 350, Rating: 4.3, Popularity: 65, ReleaseDate: day(9)},
		{ID: "10", Title: "Brush Strokes", Creator: "L. Gomez", Category: "Art", Price: 1200, Rating: 4.7, Popularity: 45, ReleaseDate: day(10), Badge: "Sale"},
		{ID: "11", Title: "Puzzle Quest", Creator: "T. Mori", Category: "Games", Price: 499, Rating: 4.0, Popularity: 75, ReleaseDate: day(11)},
		{ID: "12", Title: "World Map Stories", Creator: "A. Khan", Category: "Geography", Price: 200, Rating: 4.4, Popularity: 58, ReleaseDate: day(12)},
	}
}

func numberedItems(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{
			ID:          fmt.Sprintf("item-%02d", i+1),
			Title:       fmt.Sprintf("Title %02d", i+1),
			Creator:     "Author",
			Category:    "General",
			Price:       int64(100 + i),
			Popularity:  50,
			ReleaseDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		}
	}
	return items
}

func mustCatalog(t *testing.T, items []domain.Item) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog("kids", items)
	require.NoError(t, err)
	return c
}

func ids(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
