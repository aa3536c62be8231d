// internal/core/domain/price_bucket.go
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PriceBucket is a named price range. Min and Max are inclusive; an open-ended
// bucket has no upper bound.
type PriceBucket struct {
	Name      string `json:"name"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max,omitempty"`
	OpenEnded bool   `json:"open_ended"`
}

// ParsePriceBucket reads "200-499" style ranges and "2000+" open-ended ones.
func ParsePriceBucket(name string) (PriceBucket, error) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return PriceBucket{}, fmt.Errorf("%w: empty price bucket", ErrInvalidConfig)
	}
	// en dash shows up in hand-written labels
	norm := strings.ReplaceAll(raw, "–", "-")

	if strings.HasSuffix(norm, "+") {
		low, err := parseBound(strings.TrimSuffix(norm, "+"))
		if err != nil {
			return PriceBucket{}, fmt.Errorf("%w: price bucket %q: %v", ErrInvalidConfig, raw, err)
		}
		return PriceBucket{Name: raw, Min: low, OpenEnded: true}, nil
	}

	lo, hi, ok := strings.Cut(norm, "-")
	if !ok {
		return PriceBucket{}, fmt.Errorf("%w: price bucket %q must look like 0-199 or 2000+", ErrInvalidConfig, raw)
	}
	low, err := parseBound(lo)
	if err != nil {
		return PriceBucket{}, fmt.Errorf("%w: price bucket %q: %v", ErrInvalidConfig, raw, err)
	}
	high, err := parseBound(hi)
	if err != nil {
		return PriceBucket{}, fmt.Errorf("%w: price bucket %q: %v", ErrInvalidConfig, raw, err)
	}
	if high < low {
		return PriceBucket{}, fmt.Errorf("%w: price bucket %q has upper bound below lower bound", ErrInvalidConfig, raw)
	}
	return PriceBucket{Name: raw, Min: low, Max: high}, nil
}

func parseBound(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bound %q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("bound %d is negative", n)
	}
	return n, nil
}

// Contains reports whether price falls inside the bucket.
func (b PriceBucket) Contains(price int64) bool {
	if price < b.Min {
		return false
	}
	return b.OpenEnded || price <= b.Max
}

// PriceBuckets is an ordered price-bucket table.
type PriceBuckets []PriceBucket

// ParsePriceBuckets parses and validates a bucket table.
func ParsePriceBuckets(names []string) (PriceBuckets, error) {
	out := make(PriceBuckets, 0, len(names))
	for _, n := range names {
		b, err := ParsePriceBucket(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate requires ascending, non-overlapping buckets with at most one
// open-ended bucket in last position.
func (bs PriceBuckets) Validate() error {
	seen := make(map[string]struct{}, len(bs))
	for i, b := range bs {
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("%w: duplicate price bucket %q", ErrInvalidConfig, b.Name)
		}
		seen[b.Name] = struct{}{}

		if b.OpenEnded && i != len(bs)-1 {
			return fmt.Errorf("%w: open-ended price bucket %q must be last", ErrInvalidConfig, b.Name)
		}
		if i == 0 {
			continue
		}
		prev := bs[i-1]
		if b.Min <= prev.Max {
			return fmt.Errorf("%w: price bucket %q overlaps or precedes %q", ErrInvalidConfig, b.Name, prev.Name)
		}
	}
	return nil
}

// Find looks a bucket up by name.
func (bs PriceBuckets) Find(name string) (PriceBucket, bool) {
	name = strings.TrimSpace(name)
	for _, b := range bs {
		if b.Name == name {
			return b, true
		}
	}
	return PriceBucket{}, false
}

// Names returns bucket names in table order.
func (bs PriceBuckets) Names() []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}
