// internal/core/services/shelf_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func TestShelfService_Apply(t *testing.T) {
	added := domain.ShelfEvent{
		ShopperID: "shopper-1", Domain: "toys", Shelf: domain.ShelfCart,
		Action: domain.ShelfAdded, ItemID: "robot-kit", Quantity: 2, At: helpers.Fixed,
	}
	removed := added
	removed.Action = domain.ShelfRemoved
	removed.Quantity = 0

	tests := []struct {
		name          string
		event         domain.ShelfEvent
		setupMocks    func(*mocks.MockShelfRepository)
		errorContains string
	}{
		{
			name:  "add_to_cart",
			event: added,
			setupMocks: func(m *mocks.MockShelfRepository) {
				m.EXPECT().
					Add(gomock.Any(), domain.ShelfCart, "shopper-1", "toys", "robot-kit", 2).
					Return(3, nil)
			},
		},
		{
			name:  "remove_from_cart",
			event: removed,
			setupMocks: func(m *mocks.MockShelfRepository) {
				m.EXPECT().
					Remove(gomock.Any(), domain.ShelfCart, "shopper-1", "toys", "robot-kit").
					Return(nil)
			},
		},
		{
			name:  "repository_add_error",
			event: added,
			setupMocks: func(m *mocks.MockShelfRepository) {
				m.EXPECT().
					Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(0, errors.New("disk full"))
			},
			errorContains: "disk full",
		},
		{
			name: "unknown_action",
			event: domain.ShelfEvent{
				ShopperID: "shopper-1", Shelf: domain.ShelfWishlist, Action: "moved", ItemID: "robot-kit",
			},
			setupMocks:    func(m *mocks.MockShelfRepository) {},
			errorContains: "unknown shelf action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockShelfRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewShelfService(repo, helpers.TestLogger())
			err := svc.Apply(context.Background(), tt.event)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestShelfService_OnShelfChangedSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockShelfRepository(ctrl)
	repo.EXPECT().
		Remove(gomock.Any(), domain.ShelfWishlist, "s", "books", "x").
		Return(errors.New("locked"))

	svc := services.NewShelfService(repo, helpers.TestLogger())
	assert.NotPanics(t, func() {
		svc.OnShelfChanged(context.Background(), domain.ShelfEvent{
			ShopperID: "s", Domain: "books", Shelf: domain.ShelfWishlist, Action: domain.ShelfRemoved, ItemID: "x",
		})
	})
}

func TestShelfService_ListAndClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockShelfRepository(ctrl)
	entries := []ports.ShelfEntry{{Domain: "books", ItemID: "item-01", Quantity: 2}}

	repo.EXPECT().List(gomock.Any(), domain.ShelfCart, "shopper-1").Return(entries, nil)
	repo.EXPECT().List(gomock.Any(), domain.ShelfWishlist, "shopper-1").Return(nil, errors.New("closed"))
	repo.EXPECT().Clear(gomock.Any(), domain.ShelfCart, "shopper-1").Return(nil)

	svc := services.NewShelfService(repo, helpers.TestLogger())
	ctx := context.Background()

	got, err := svc.List(ctx, domain.ShelfCart, "shopper-1")
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = svc.List(ctx, domain.ShelfWishlist, "shopper-1")
	assert.ErrorContains(t, err, "closed")

	require.NoError(t, svc.Clear(ctx, domain.ShelfCart, "shopper-1"))
}
