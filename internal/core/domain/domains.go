// internal/core/domain/domains.go
package domain

var standardBuckets = []string{"0-199", "200-499", "500-999", "1000-1999", "2000+"}

// BuiltinDomains returns the storefront's stock domain configurations. They are
// not yet validated.
func BuiltinDomains() []DomainConfig {
	return []DomainConfig{
		{
			Name:         "books",
			Title:        "Books",
			CreatorLabel: "Author",
			WrapperKeys:  []string{"books", "data"},
			Filters:      []FilterName{FilterCategory, FilterCreator, FilterPrice},
			PriceBuckets: standardBuckets,
			PageSizes:    PageSizes{Grid: 12, List: 6},
			DefaultSort:  SortFeatured,
		},
		{
			Name:           "kids",
			Title:          "Kids' Books",
			CreatorLabel:   "Author",
			SecondaryLabel: "Age Group",
			WrapperKeys:    []string{"books", "kids", "data"},
			Filters:        []FilterName{FilterCategory, FilterSecondaryGroup, FilterPrice},
			PriceBuckets:   []string{"0-199", "200-499", "500+"},
			PageSizes:      PageSizes{Grid: 9, List: 8},
			DefaultSort:    SortPopular,
		},
		{
			Name:         "new-noteworthy",
			Title:        "New & Noteworthy",
			CreatorLabel: "Author",
			WrapperKeys:  []string{"books", "items", "data"},
			Filters:      []FilterName{FilterCategory},
			PageSizes:    PageSizes{Grid: 12, List: 6},
			DefaultSort:  SortNewest,
		},
		{
			Name:         "stationery",
			Title:        "Stationery & Gifts",
			CreatorLabel: "Brand",
			WrapperKeys:  []string{"products", "stationery", "data"},
			Filters:      []FilterName{FilterCategory, FilterCreator, FilterPrice},
			PriceBuckets: standardBuckets,
			PageSizes:    PageSizes{Grid: 9, List: 8},
			DefaultSort:  SortFeatured,
		},
		{
			Name:           "top50",
			Title:          "Top 50",
			CreatorLabel:   "Author",
			WrapperKeys:    []string{"books", "top50", "data"},
			Filters:        []FilterName{FilterCategory},
			PageSizes:      PageSizes{Grid: 10, List: 5},
			WidePagination: true,
			DefaultSort:    SortRank,
		},
		{
			Name:           "toys",
			Title:          "Toys & Games",
			CreatorLabel:   "Manufacturer",
			SecondaryLabel: "Age Group",
			WrapperKeys:    []string{"toys", "products", "data"},
			Filters:        []FilterName{FilterCategory, FilterSecondaryGroup, FilterCreator, FilterPrice},
			PriceBuckets:   standardBuckets,
			PageSizes:      PageSizes{Grid: 12, List: 6},
			DefaultSort:    SortFeatured,
		},
	}
}
