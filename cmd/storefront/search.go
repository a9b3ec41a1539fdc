package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/search"
)

var (
	searchQuery    string
	searchCategory string
	searchPrice    string
	searchSort     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter and sort the catalog from the command line",
	Example: `  storefront search --q backpack
  storefront search --category electronics --price-range 50to100 --sort rating`,
	RunE: func(cmd *cobra.Command, args []string) error {
		priceRange, err := search.ParsePriceRange(searchPrice)
		if err != nil {
			return err
		}
		sortKey, err := search.ParseSort(searchSort)
		if err != nil {
			return err
		}

		src, err := openCatalog(cfg, logger)
		if err != nil {
			return err
		}
		products, err := src.ListProducts(cmd.Context())
		if err != nil {
			return err
		}

		result := search.Apply(products, search.Criteria{
			Query:      searchQuery,
			Category:   searchCategory,
			PriceRange: priceRange,
			Sort:       sortKey,
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRICE\tRATING\tCATEGORY\tTITLE")
		for _, p := range result {
			fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%s\n", p.ID, p.Price.StringFixed(2), p.Rating.Rate, p.Category, p.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", len(result))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "q", "", "case-insensitive text in title or description")
	searchCmd.Flags().StringVar(&searchCategory, "category", search.AllCategories, "category label, or all")
	searchCmd.Flags().StringVar(&searchPrice, "price-range", string(search.PriceAll), "all, under25, 25to50, 50to100 or over100")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(search.SortDefault), "default, priceLow, priceHigh, rating or name")
}
