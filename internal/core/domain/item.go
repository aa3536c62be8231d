// internal/core/domain/item.go
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory   = "Uncategorized"
	DefaultPopularity = 50
	MaxRating         = 5.0
	MaxPopularity     = 100
	DateLayout        = "2006-01-02"
)

// Item is a single catalog entry. Prices are in the smallest currency unit.
type Item struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Creator        string    `json:"creator"`
	Category       string    `json:"category"`
	SecondaryGroup string    `json:"secondary_group,omitempty"`
	Price          int64     `json:"price"`
	OriginalPrice  *int64    `json:"original_price,omitempty"`
	Rating         float64   `json:"rating"`
	Popularity     int       `json:"popularity"`
	ReleaseDate    time.Time `json:"release_date"`
	Badge          string    `json:"badge,omitempty"`
	ImageRef       string    `json:"image_ref"`
}

// Validate checks the fields a record cannot be repaired without.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	if strings.TrimSpace(i.Creator) == "" {
		return fmt.Errorf("%w: creator is required", ErrInvalidItem)
	}
	return nil
}

// Normalize clamps numeric fields into range and fills defaults.
func (i *Item) Normalize(now time.Time, placeholder string) {
	i.Title = strings.TrimSpace(i.Title)
	i.Creator = strings.TrimSpace(i.Creator)
	i.Category = strings.TrimSpace(i.Category)
	i.SecondaryGroup = strings.TrimSpace(i.SecondaryGroup)
	i.Badge = strings.TrimSpace(i.Badge)

	if i.Category == "" {
		i.Category = DefaultCategory
	}
	if i.Price < 0 {
		i.Price = 0
	}
	if i.OriginalPrice != nil && *i.OriginalPrice < i.Price {
		i.OriginalPrice = nil
	}

	switch {
	case math.IsNaN(i.Rating) || i.Rating < 0:
		i.Rating = 0
	case i.Rating > MaxRating:
		i.Rating = MaxRating
	}

	switch {
	case i.Popularity < 0:
		i.Popularity = 0
	case i.Popularity > MaxPopularity:
		i.Popularity = MaxPopularity
	}

	if i.ReleaseDate.IsZero() {
		i.ReleaseDate = now
	}
	i.ReleaseDate = time.Date(i.ReleaseDate.Year(), i.ReleaseDate.Month(), i.ReleaseDate.Day(), 0, 0, 0, 0, time.UTC)

	if strings.TrimSpace(i.ImageRef) == "" {
		i.ImageRef = placeholder
	}
}

// OnSale reports whether the item carries a discount.
func (i *Item) OnSale() bool {
	return i.OriginalPrice != nil && *i.OriginalPrice > i.Price
}

// DiscountPercent returns the whole-number discount off the original price.
func (i *Item) DiscountPercent() int64 {
	if !i.OnSale() {
		return 0
	}
	orig := decimal.NewFromInt(*i.OriginalPrice)
	off := orig.Sub(decimal.NewFromInt(i.Price))
	return off.Mul(decimal.NewFromInt(100)).Div(orig).Round(0).IntPart()
}

// PriceDecimal converts a minor-unit amount into the display currency using
// the number of decimal places the currency carries.
func PriceDecimal(minor int64, exponent int32) decimal.Decimal {
	return decimal.New(minor, -exponent)
}

// Field returns the string value of a filterable field.
func (i *Item) Field(name FilterName) string {
	switch name {
	case FilterCategory:
		return i.Category
	case FilterSecondaryGroup:
		return i.SecondaryGroup
	case FilterCreator:
		return i.Creator
	}
	return ""
}

// RankScore is the weighted composite used by the rank sort.
func (i *Item) RankScore(w RankWeights) float64 {
	return w.Rating*i.Rating + w.Popularity*(float64(i.Popularity)/MaxPopularity)
}
