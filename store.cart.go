package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// CartStore is the session-scoped mirror of the server cart. It loads
// on authentication changes, trusts the server copy after every write
// except removals, which are applied locally first.
type CartStore struct {
	logger  *zap.Logger
	origin  *OriginClient
	auth    Authenticator
	ids     UIDHandler
	mu      sync.RWMutex
	cart    Cart
	loading bool
	lastErr error
}

// NewCartStore provides an empty cart store bound to a session.
func NewCartStore(logger *zap.Logger, origin *OriginClient, auth Authenticator, ids UIDHandler) *CartStore {
	return &CartStore{
		logger: logger,
		origin: origin,
		auth:   auth,
		ids:    ids,
		cart:   Cart{Items: []CartItem{}},
	}
}

// Items returns a copy of the current cart lines.
func (cs *CartStore) Items() []CartItem {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	items := make([]CartItem, len(cs.cart.Items))
	copy(items, cs.cart.Items)
	return items
}

// Count returns the total quantity across all lines.
func (cs *CartStore) Count() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	total := 0
	for _, item := range cs.cart.Items {
		total += item.Quantity
	}
	return total
}

// Total returns the cart amount from the recorded price snapshots.
func (cs *CartStore) Total() float64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	var total float64
	for _, item := range cs.cart.Items {
		if item.PriceSnapshot != nil {
			total += *item.PriceSnapshot * float64(item.Quantity)
		}
	}
	return total
}

// Loading tells whether a load is in flight.
func (cs *CartStore) Loading() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.loading
}

// Err returns the last recorded failure, cleared by the next
// successful operation.
func (cs *CartStore) Err() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastErr
}

// Load refreshes the cart from the server. Without a session the cart
// resets to empty. An expired token also resets to empty without
// being treated as a failure, the user simply logged out elsewhere.
func (cs *CartStore) Load(ctx context.Context) error {
	if !cs.auth.IsAuthenticated() {
		cs.reset()
		return nil
	}

	cs.mu.Lock()
	cs.loading = true
	cs.mu.Unlock()
	defer func() {
		cs.mu.Lock()
		cs.loading = false
		cs.mu.Unlock()
	}()

	status, data, err := cs.origin.Do(ctx, http.MethodGet, "/api/cart", cs.auth.Token(), nil)
	if err != nil {
		cs.fail(err)
		return err
	}
	if status == http.StatusUnauthorized {
		cs.reset()
		return nil
	}
	if status != http.StatusOK {
		err = errors.New(errorMessage(data, "failed to load cart"))
		cs.fail(err)
		return err
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		cs.fail(err)
		return err
	}
	cs.replace(cart)
	return nil
}

// Add puts a book into the cart. The session and the id are validated
// before anything leaves the process, then the server copy of the cart
// is adopted.
func (cs *CartStore) Add(ctx context.Context, bookID string, quantity int) error {
	if !cs.auth.IsAuthenticated() {
		cs.fail(ErrNoSession)
		return ErrNoSession
	}
	if !cs.ids.IsValid(bookID) {
		err := errors.New("book id provided is not valid")
		cs.fail(err)
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	payload := map[string]interface{}{"bookId": bookID, "quantity": quantity}
	status, data, err := cs.origin.Do(ctx, http.MethodPost, "/api/cart/items", cs.auth.Token(), payload)
	if err != nil {
		cs.fail(err)
		return err
	}
	if status != http.StatusOK {
		err = errors.New(errorMessage(data, "failed to add item to cart"))
		cs.fail(err)
		return err
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		cs.fail(err)
		return err
	}
	cs.replace(cart)
	cs.logger.Info("cart item added", zap.String("book.id", bookID), zap.Int("cart.quantity", quantity))
	return nil
}

// Remove takes a book out of the cart. The server does not echo the
// cart back on removals so the line is filtered out locally.
func (cs *CartStore) Remove(ctx context.Context, bookID string) error {
	if !cs.auth.IsAuthenticated() {
		cs.fail(ErrNoSession)
		return ErrNoSession
	}
	status, data, err := cs.origin.Do(ctx, http.MethodDelete, "/api/cart/items/"+bookID, cs.auth.Token(), nil)
	if err != nil {
		cs.fail(err)
		return err
	}
	if status != http.StatusOK {
		err = errors.New(errorMessage(data, "failed to remove item from cart"))
		cs.fail(err)
		return err
	}

	cs.mu.Lock()
	items := cs.cart.Items[:0]
	for _, item := range cs.cart.Items {
		if item.BookID != bookID {
			items = append(items, item)
		}
	}
	cs.cart.Items = items
	cs.lastErr = nil
	cs.mu.Unlock()
	cs.logger.Info("cart item removed", zap.String("book.id", bookID))
	return nil
}

// Clear empties the cart on the server and locally.
func (cs *CartStore) Clear(ctx context.Context) error {
	if !cs.auth.IsAuthenticated() {
		cs.fail(ErrNoSession)
		return ErrNoSession
	}
	status, data, err := cs.origin.Do(ctx, http.MethodDelete, "/api/cart", cs.auth.Token(), nil)
	if err != nil {
		cs.fail(err)
		return err
	}
	if status != http.StatusOK {
		err = errors.New(errorMessage(data, "failed to clear cart"))
		cs.fail(err)
		return err
	}
	cs.reset()
	return nil
}

func (cs *CartStore) reset() {
	cs.mu.Lock()
	cs.cart = Cart{Items: []CartItem{}}
	cs.lastErr = nil
	cs.mu.Unlock()
}

func (cs *CartStore) replace(cart Cart) {
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	cs.mu.Lock()
	cs.cart = cart
	cs.lastErr = nil
	cs.mu.Unlock()
}

func (cs *CartStore) fail(err error) {
	cs.mu.Lock()
	cs.lastErr = err
	cs.mu.Unlock()
	cs.logger.Error("cart operation failed", zap.Error(err))
}
