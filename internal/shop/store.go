package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// BlobStore is the persistent key/value slot storage the store writes to.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Notifier receives user-facing notifications. Implementations must not block.
type Notifier interface {
	Notify(title, description string)
}

// Store owns the cart and wishlist for one session. Every mutation is applied
// through Reduce and then persisted with a full overwrite of the touched slot.
type Store struct {
	mu       sync.RWMutex
	state    State
	blobs    BlobStore
	notifier Notifier
	logger   *zap.Logger
}

// New builds a Store and loads any previously persisted state. A missing or
// malformed slot leaves that part of the state empty.
func New(ctx context.Context, blobs BlobStore, notifier Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		blobs:    blobs,
		notifier: notifier,
		logger:   logger,
		state:    State{Cart: domain.Cart{}, Wishlist: domain.Wishlist{}},
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.blobs == nil {
		return
	}
	if raw, ok := s.read(ctx, SlotCart); ok {
		cart, err := decodeCart(raw)
		if err != nil {
			s.logger.Warn("discarding persisted cart", zap.Error(err))
		} else {
			s.state.Cart = cart
		}
	}
	if raw, ok := s.read(ctx, SlotWishlist); ok {
		wishlist, err := decodeWishlist(raw)
		if err != nil {
			s.logger.Warn("discarding persisted wishlist", zap.Error(err))
		} else {
			s.state.Wishlist = wishlist
		}
	}
	s.logger.Debug("shop state loaded",
		zap.Int("cart_items", len(s.state.Cart)),
		zap.Int("wishlist_items", len(s.state.Wishlist)),
	)
}

func (s *Store) read(ctx context.Context, slot Slot) (string, bool) {
	raw, ok, err := s.blobs.Get(ctx, string(slot))
	if err != nil {
		s.logger.Warn("read persisted slot", zap.String("slot", string(slot)), zap.Error(err))
		return "", false
	}
	return raw, ok
}

// AddToCart adds quantity units of p. A zero quantity adds one unit; a
// negative quantity is ignored.
func (s *Store) AddToCart(ctx context.Context, p domain.Product, quantity int) {
	if quantity < 0 {
		s.logger.Warn("ignoring negative add to cart", zap.Int("product_id", p.ID), zap.Int("quantity", quantity))
		return
	}
	s.dispatch(ctx, Action{Kind: ActionAddToCart, Product: p, Quantity: quantity})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID int) {
	s.dispatch(ctx, Action{Kind: ActionRemoveFromCart, ProductID: productID})
}

// UpdateQuantity sets the absolute quantity of an item; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.dispatch(ctx, Action{Kind: ActionUpdateQuantity, ProductID: productID, Quantity: quantity})
}

// ToggleWishlist flips membership of productID and reports the new membership.
func (s *Store) ToggleWishlist(ctx context.Context, productID int) bool {
	next := s.dispatch(ctx, Action{Kind: ActionToggleWishlist, ProductID: productID})
	return next.Wishlist.Contains(productID)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.dispatch(ctx, Action{Kind: ActionClearCart})
}

func (s *Store) IsInWishlist(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Wishlist.Contains(productID)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Cart.TotalItems()
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Cart.TotalPrice()
}

// Cart returns a copy of the cart items.
func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Cart)
}

// Wishlist returns a copy of the wishlist IDs.
func (s *Store) Wishlist() domain.Wishlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Wishlist)
}

// Snapshot returns cart and wishlist as observed at a single point in time.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Cart: slices.Clone(s.state.Cart), Wishlist: slices.Clone(s.state.Wishlist)}
}

// dispatch runs one transition. The write lock is held across the persist step
// so slot writes land in the same order as the transitions that produced them.
func (s *Store) dispatch(ctx context.Context, a Action) State {
	s.mu.Lock()
	next, effect := Reduce(s.state, a)
	s.state = next
	if effect.Slot != "" {
		s.persist(ctx, effect.Slot, next)
	}
	s.mu.Unlock()

	s.logger.Debug("shop action applied",
		zap.Stringer("action", a.Kind),
		zap.Int("product_id", a.target()),
		zap.Int("cart_items", len(next.Cart)),
		zap.Int("wishlist_items", len(next.Wishlist)),
	)
	if effect.Notice != nil && s.notifier != nil {
		s.notifier.Notify(effect.Notice.Title, effect.Notice.Description)
	}
	return next
}

func (s *Store) persist(ctx context.Context, slot Slot, st State) {
	if s.blobs == nil {
		return
	}
	var (
		raw []byte
		err error
	)
	switch slot {
	case SlotCart:
		raw, err = encodeCart(st.Cart)
	case SlotWishlist:
		raw, err = encodeWishlist(st.Wishlist)
	default:
		return
	}
	if err != nil {
		s.logger.Error("encode slot", zap.String("slot", string(slot)), zap.Error(err))
		return
	}
	if err := s.blobs.Set(ctx, string(slot), string(raw)); err != nil {
		s.logger.Warn("persist slot", zap.String("slot", string(slot)), zap.Error(err))
	}
}

func encodeCart(c domain.Cart) ([]byte, error) {
	if c == nil {
		c = domain.Cart{}
	}
	return json.Marshal(c)
}

func encodeWishlist(w domain.Wishlist) ([]byte, error) {
	if w == nil {
		w = domain.Wishlist{}
	}
	return json.Marshal(w)
}

// decodeCart accepts a stored cart only if it satisfies the cart invariants:
// one item per product ID and positive quantities. Quantities above
// domain.MaxQuantity are capped.
func decodeCart(raw string) (domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	seen := make(map[int]struct{}, len(cart))
	for i, item := range cart {
		cart[i].Quantity = min(item.Quantity, domain.MaxQuantity)
		if item.Quantity < 1 {
			return nil, fmt.Errorf("decode cart: product %d has quantity %d", item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("decode cart: duplicate product %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, nil
}

func decodeWishlist(raw string) (domain.Wishlist, error) {
	var wishlist domain.Wishlist
	if err := json.Unmarshal([]byte(raw), &wishlist); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	seen := make(map[int]struct{}, len(wishlist))
	for _, id := range wishlist {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("decode wishlist: duplicate product %d", id)
		}
		seen[id] = struct{}{}
	}
	if wishlist == nil {
		wishlist = domain.Wishlist{}
	}
	return wishlist, nil
}
