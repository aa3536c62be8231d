// cmd/catalogctl/commands.go
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

var domainsStatus bool

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the configured catalog domains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, false, func(ctx context.Context, a *app) error {
			cfgs := a.catalogs.Service.Domains()
			if !domainsStatus {
				return renderDomains(a.out, globalFlags.Format, cfgs)
			}
			return renderStatus(a.out, globalFlags.Format, a.catalogs.Warm(ctx))
		})
	},
}

var browseFlags struct {
	Search   string
	Sort     string
	Filters  []string
	Page     int
	PageSize int
	View     string
	All      bool
}

var browseCmd = &cobra.Command{
	Use:   "browse <domain>",
	Short: "Filter, sort and page through a catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := buildQuerySpec(browseFlags.Search, browseFlags.Sort, browseFlags.Filters)
		if err != nil {
			return err
		}
		view := domain.ViewMode(strings.ToLower(browseFlags.View))
		if view != domain.ViewGrid && view != domain.ViewList {
			return fmt.Errorf("invalid view %q: use grid or list", browseFlags.View)
		}
		if browseFlags.Page < 1 {
			return fmt.Errorf("invalid page %d", browseFlags.Page)
		}

		params := ports.QueryParams{
			Query:    spec,
			Page:     browseFlags.Page,
			PageSize: browseFlags.PageSize,
			View:     view,
			All:      browseFlags.All,
		}

		return run(cmd, false, func(ctx context.Context, a *app) error {
			res, err := a.catalogs.Service.Query(ctx, args[0], params)
			if err != nil {
				return err
			}
			return renderResult(a.out, globalFlags.Format, res, currencyExponent(a.catalogs.Service.Domains(), args[0]))
		})
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options <domain>",
	Short: "Show the filter values discovered in a catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, false, func(ctx context.Context, a *app) error {
			opts, err := a.catalogs.Service.Options(ctx, args[0])
			if err != nil {
				return err
			}
			return renderOptions(a.out, globalFlags.Format, opts)
		})
	},
}

var cartFlags struct {
	Shopper string
	Shelf   string
	Qty     int
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage a shopper's cart or wishlist",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items on a shelf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shelf, err := cartTarget()
		if err != nil {
			return err
		}
		return run(cmd, true, func(ctx context.Context, a *app) error {
			entries, err := a.catalogs.Shelf.List(ctx, shelf, cartFlags.Shopper)
			if err != nil {
				return err
			}
			return renderShelf(a.out, globalFlags.Format, shelf, entries)
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <domain> <item-id>",
	Short: "Add an item to a shelf",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateShelf(cmd, args, false)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <domain> <item-id>",
	Short: "Remove an item from a shelf",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateShelf(cmd, args, true)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty a shelf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shelf, err := cartTarget()
		if err != nil {
			return err
		}
		return run(cmd, true, func(ctx context.Context, a *app) error {
			if err := a.catalogs.Shelf.Clear(ctx, shelf, cartFlags.Shopper); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s cleared for %s\n", shelf, cartFlags.Shopper)
			return nil
		})
	},
}

func init() {
	f := browseCmd.Flags()
	f.StringVarP(&browseFlags.Search, "search", "s", "", "search text matched against title and creator")
	f.StringVar(&browseFlags.Sort, "sort", "", "sort key ("+joinSortKeys()+")")
	f.StringArrayVarP(&browseFlags.Filters, "filter", "f", nil, "filter as name=value, repeatable (category, creator, author, brand, age, price)")
	f.IntVarP(&browseFlags.Page, "page", "p", 1, "page number")
	f.IntVar(&browseFlags.PageSize, "page-size", 0, "items per page (default: the domain's size for the view)")
	f.StringVar(&browseFlags.View, "view", string(domain.ViewGrid), "grid or list")
	f.BoolVar(&browseFlags.All, "all", false, "print every matching item")

	domainsCmd.Flags().BoolVar(&domainsStatus, "status", false, "load every catalog and report its state")

	pf := cartCmd.PersistentFlags()
	pf.StringVar(&cartFlags.Shopper, "shopper", "", "shopper id (required)")
	pf.StringVar(&cartFlags.Shelf, "shelf", string(domain.ShelfCart), "cart or wishlist")
	cartAddCmd.Flags().IntVar(&cartFlags.Qty, "qty", 1, "quantity to add (carts only)")
	_ = cartCmd.MarkPersistentFlagRequired("shopper")

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartClearCmd)
}

func cartTarget() (domain.ShelfKind, error) {
	if strings.TrimSpace(cartFlags.Shopper) == "" {
		return "", fmt.Errorf("--shopper is required")
	}
	return domain.ParseShelfKind(cartFlags.Shelf)
}

func updateShelf(cmd *cobra.Command, args []string, remove bool) error {
	shelf, err := cartTarget()
	if err != nil {
		return err
	}
	if !remove && cartFlags.Qty < 0 {
		return fmt.Errorf("invalid quantity %d", cartFlags.Qty)
	}
	req := ports.ShelfRequest{
		ShopperID: cartFlags.Shopper,
		Domain:    args[0],
		Shelf:     shelf,
		ItemID:    args[1],
		Quantity:  cartFlags.Qty,
		Remove:    remove,
	}
	return run(cmd, true, func(ctx context.Context, a *app) error {
		ev, err := a.catalogs.Service.UpdateShelf(ctx, req)
		if err != nil {
			return err
		}
		return renderShelfEvent(a.out, globalFlags.Format, ev)
	})
}

// buildQuerySpec turns command-line values into a query. Filter names accept
// the same spellings as the API.
func buildQuerySpec(search, sortKey string, filters []string) (domain.QuerySpec, error) {
	spec := domain.QuerySpec{
		SearchText: strings.TrimSpace(search),
		SortKey:    domain.SortKey(strings.TrimSpace(sortKey)),
	}
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return domain.QuerySpec{}, fmt.Errorf("filter %q must be name=value", f)
		}
		name, ok := domain.ParseFilterName(key)
		if !ok {
			return domain.QuerySpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownFilter, key)
		}
		spec = spec.WithFilter(name, value)
	}
	return spec, nil
}

func currencyExponent(cfgs []domain.DomainConfig, name string) int32 {
	for _, c := range cfgs {
		if c.Name == name {
			return c.CurrencyExponent
		}
	}
	return 0
}

func joinSortKeys() string {
	keys := domain.SortKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
