package main

import (
	"fmt"
	"strings"

	"github.com/prperemyshlev/storefront/pkg/client"
	"github.com/spf13/cobra"
)

func (a *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Browse the catalog",
	}
	cmd.AddCommand(a.productsListCmd(), a.productsGetCmd())
	return cmd
}

func (a *cli) productsListCmd() *cobra.Command {
	var q client.ProductQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.render(cmd, page, func(p *printer) {
				p.table([]string{"ID", "NAME", "CATEGORY", "PRICE", "STOCK", "RATING"}, func(row func(...any)) {
					for _, item := range page.Items {
						row(item.ID, item.Name, item.Category, fmt.Sprintf("%.2f", item.Price), item.Stock,
							fmt.Sprintf("%.1f (%d)", item.Ratings.Average, item.Ratings.Count))
					}
				})
				p.line("page %d of %d, %d products", page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalProducts)
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&q.Page, "page", 0, "page number (default 1)")
	f.IntVar(&q.Limit, "limit", 0, "page size (default 12)")
	f.StringVar(&q.Category, "category", "", "category")
	f.StringVar(&q.Search, "search", "", "text contained in name or description")
	f.StringVar(&q.PriceRange, "price", "", `price range "min-max", either side optional`)
	f.StringVar(&q.SortBy, "sort", "", "price-asc, price-desc, name-asc, name-desc or rating")
	return cmd
}

func (a *cli) productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, product, func(p *printer) {
				p.line("%s", product.Name)
				p.line("%s", product.Description)
				p.line("category: %s", product.Category)
				p.line("price:    %.2f", product.Price)
				p.line("stock:    %d", product.Stock)
				p.line("rating:   %.1f (%d reviews)", product.Ratings.Average, product.Ratings.Count)
				if len(product.Images) > 0 {
					p.line("images:   %s", strings.Join(product.Images, ", "))
				}
			})
		},
	}
}
