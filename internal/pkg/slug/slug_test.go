package slug_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Visual Mathematics", want: "visual-mathematics"},
		{name: "accents", in: "Crème Brûlée Café", want: "creme-brulee-cafe"},
		{name: "punctuation", in: "  Harry Potter & the  Stone!! ", want: "harry-potter-the-stone"},
		{name: "digits", in: "Top 50: 2024", want: "top-50-2024"},
		{name: "non_latin", in: "数学", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "atlas-of-stars-j-doe", slug.ItemID("Atlas of Stars", "J. Doe"))

	id := slug.ItemID("数学", "田中")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, slug.ItemID("数学", "田中"))
	assert.NotEqual(t, id, slug.ItemID("数学", "山田"))
}
