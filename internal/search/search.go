// Package search filters and orders catalog products for listing pages.
package search

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

// ErrInvalidCriteria is returned when a price range or sort key is unknown.
var ErrInvalidCriteria = errors.New("invalid search criteria")

// AllCategories disables the category filter.
const AllCategories = "all"

type PriceRange string

const (
	PriceAll     PriceRange = "all"
	PriceUnder25 PriceRange = "under25"
	Price25To50  PriceRange = "25to50"
	Price50To100 PriceRange = "50to100"
	PriceOver100 PriceRange = "over100"
)

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "priceLow"
	SortPriceHigh SortKey = "priceHigh"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// Criteria is a listing query. The zero value matches everything and keeps
// catalog order.
type Criteria struct {
	Query      string
	Category   string
	PriceRange PriceRange
	Sort       SortKey
}

var (
	twentyFive  = decimal.NewFromInt(25)
	fifty       = decimal.NewFromInt(50)
	oneHundred  = decimal.NewFromInt(100)
	titleLocale = language.English
)

func ParsePriceRange(s string) (PriceRange, error) {
	switch r := PriceRange(strings.TrimSpace(s)); r {
	case "", PriceAll:
		return PriceAll, nil
	case PriceUnder25, Price25To50, Price50To100, PriceOver100:
		return r, nil
	default:
		return "", fmt.Errorf("%w: price range %q", ErrInvalidCriteria, s)
	}
}

func ParseSort(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceLow, SortPriceHigh, SortRating, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("%w: sort %q", ErrInvalidCriteria, s)
	}
}

// Apply filters products by c and then sorts the result. The input slice is
// left untouched.
func Apply(products []domain.Product, c Criteria) []domain.Product {
	return Sort(Filter(products, c), c.Sort)
}

// Filter keeps products matching the query, category and price range, in
// their original order.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	query := strings.ToLower(c.Query)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, query) && matchesCategory(p, c.Category) && InPriceRange(p.Price, c.PriceRange) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p domain.Product, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered)
}

func matchesCategory(p domain.Product, category string) bool {
	return category == "" || category == AllCategories || p.Category == category
}

// InPriceRange reports whether price falls in r. 25 opens the 25to50 bracket;
// 50 and 100 close the bracket below them.
func InPriceRange(price decimal.Decimal, r PriceRange) bool {
	switch r {
	case PriceUnder25:
		return price.LessThan(twentyFive)
	case Price25To50:
		return price.GreaterThanOrEqual(twentyFive) && price.LessThanOrEqual(fifty)
	case Price50To100:
		return price.GreaterThan(fifty) && price.LessThanOrEqual(oneHundred)
	case PriceOver100:
		return price.GreaterThan(oneHundred)
	default:
		return true
	}
}

// Sort returns a sorted copy of products. Ties keep their input order.
func Sort(products []domain.Product, key SortKey) []domain.Product {
	out := slices.Clone(products)
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating.Rate, a.Rating.Rate) })
	case SortName:
		// Collators keep scratch buffers, so each call gets its own.
		col := collate.New(titleLocale)
		slices.SortStableFunc(out, func(a, b domain.Product) int { return col.CompareString(a.Title, b.Title) })
	}
	return out
}

// ByIDs returns the products whose ID is listed in ids, in catalog order.
func ByIDs(products []domain.Product, ids []int) []domain.Product {
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]domain.Product, 0, len(ids))
	for _, p := range products {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
