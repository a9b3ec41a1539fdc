package domain

import "github.com/shopspring/decimal"

// MaxQuantity caps the units of one product a cart line may hold.
const MaxQuantity = 999

// CartItem is a product in the cart. Product fields are flattened in JSON so
// a stored item reads like the product with a quantity attached.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart keeps items in first-added order.
type Cart []CartItem

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Index returns the position of the item for productID, or -1.
func (c Cart) Index(productID int) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Wishlist holds product IDs in first-added order.
type Wishlist []int

func (w Wishlist) Contains(productID int) bool {
	for _, id := range w {
		if id == productID {
			return true
		}
	}
	return false
}
