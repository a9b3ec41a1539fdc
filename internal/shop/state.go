package shop

import (
	"slices"
	"unicode/utf8"

	"storefront/internal/domain"
)

// Slot names the blob store key a piece of state is persisted under.
type Slot string

const (
	SlotCart     Slot = "cart"
	SlotWishlist Slot = "wishlist"
)

type ActionKind int

const (
	ActionAddToCart ActionKind = iota + 1
	ActionRemoveFromCart
	ActionUpdateQuantity
	ActionToggleWishlist
	ActionClearCart
)

func (k ActionKind) String() string {
	switch k {
	case ActionAddToCart:
		return "addToCart"
	case ActionRemoveFromCart:
		return "removeFromCart"
	case ActionUpdateQuantity:
		return "updateQuantity"
	case ActionToggleWishlist:
		return "toggleWishlist"
	case ActionClearCart:
		return "clearCart"
	default:
		return "unknown"
	}
}

// Action describes one mutation. Product is only read by ActionAddToCart;
// the other kinds address items by ProductID.
type Action struct {
	Kind      ActionKind
	Product   domain.Product
	ProductID int
	Quantity  int
}

func (a Action) target() int {
	if a.Kind == ActionAddToCart {
		return a.Product.ID
	}
	return a.ProductID
}

// State is the full shop state. Values are treated as immutable: Reduce
// always builds new slices.
type State struct {
	Cart     domain.Cart
	Wishlist domain.Wishlist
}

// Notice is a user-facing notification produced by a transition.
type Notice struct {
	Title       string
	Description string
}

// Effect tells the store what to do after a transition. An empty Slot means
// nothing needs persisting.
type Effect struct {
	Slot   Slot
	Notice *Notice
}

const titlePreviewLen = 20

// Reduce applies a to s and returns the next state with the side effects the
// caller must run. It never mutates s.
func Reduce(s State, a Action) (State, Effect) {
	switch a.Kind {
	case ActionAddToCart:
		return addToCart(s, a.Product, a.Quantity)
	case ActionRemoveFromCart:
		return removeFromCart(s, a.ProductID)
	case ActionUpdateQuantity:
		if a.Quantity <= 0 {
			return removeFromCart(s, a.ProductID)
		}
		return updateQuantity(s, a.ProductID, a.Quantity)
	case ActionToggleWishlist:
		return toggleWishlist(s, a.ProductID)
	case ActionClearCart:
		s.Cart = domain.Cart{}
		return s, Effect{Slot: SlotCart, Notice: &Notice{
			Title:       "Cart cleared",
			Description: "All items have been removed from your cart",
		}}
	default:
		return s, Effect{}
	}
}

func addToCart(s State, p domain.Product, quantity int) (State, Effect) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return s, Effect{}
	}

	next := slices.Clone(s.Cart)
	if i := next.Index(p.ID); i >= 0 {
		next[i].Quantity = addCapped(next[i].Quantity, quantity)
	} else {
		next = append(next, domain.CartItem{Product: p, Quantity: min(quantity, domain.MaxQuantity)})
	}
	s.Cart = next

	return s, Effect{Slot: SlotCart, Notice: &Notice{
		Title:       "Added to cart",
		Description: truncate(p.Title, titlePreviewLen) + "... added to your cart",
	}}
}

func removeFromCart(s State, id int) (State, Effect) {
	next := make(domain.Cart, 0, len(s.Cart))
	for _, item := range s.Cart {
		if item.ID != id {
			next = append(next, item)
		}
	}
	s.Cart = next
	return s, Effect{Slot: SlotCart, Notice: &Notice{
		Title:       "Removed from cart",
		Description: "Item has been removed from your cart",
	}}
}

func updateQuantity(s State, id, quantity int) (State, Effect) {
	next := slices.Clone(s.Cart)
	if i := next.Index(id); i >= 0 {
		next[i].Quantity = min(quantity, domain.MaxQuantity)
	}
	s.Cart = next
	return s, Effect{Slot: SlotCart}
}

func toggleWishlist(s State, id int) (State, Effect) {
	if s.Wishlist.Contains(id) {
		next := make(domain.Wishlist, 0, len(s.Wishlist))
		for _, existing := range s.Wishlist {
			if existing != id {
				next = append(next, existing)
			}
		}
		s.Wishlist = next
		return s, Effect{Slot: SlotWishlist, Notice: &Notice{
			Title:       "Removed from wishlist",
			Description: "Item removed from your wishlist",
		}}
	}

	next := make(domain.Wishlist, len(s.Wishlist), len(s.Wishlist)+1)
	copy(next, s.Wishlist)
	s.Wishlist = append(next, id)
	return s, Effect{Slot: SlotWishlist, Notice: &Notice{
		Title:       "Added to wishlist",
		Description: "Item added to your wishlist",
	}}
}

// addCapped sums two non-negative quantities, saturating at domain.MaxQuantity.
func addCapped(have, add int) int {
	if add > domain.MaxQuantity-have {
		return domain.MaxQuantity
	}
	return have + add
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
