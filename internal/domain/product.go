package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Validate reports the first field that falls outside the catalog contract.
func (p Product) Validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("product id %d: must be positive", p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("product %d: negative price %s", p.ID, p.Price)
	case math.IsNaN(p.Rating.Rate) || math.IsInf(p.Rating.Rate, 0):
		return fmt.Errorf("product %d: rating is not a finite number", p.ID)
	case p.Rating.Rate < 0 || p.Rating.Rate > 5:
		return fmt.Errorf("product %d: rating %.2f out of range", p.ID, p.Rating.Rate)
	case p.Rating.Count < 0:
		return fmt.Errorf("product %d: negative rating count", p.ID)
	}
	return nil
}
