// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shop_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/internal/shop"
)

// # In-Memory Fakes

// fakeCatalog is the movie gate plus the live price source the cart
// projection reads from.
type fakeCatalog struct {
	prices map[int64]float64
}

func (f *fakeCatalog) MovieExists(_ context.Context, movieID int64) error {
	if _, ok := f.prices[movieID]; !ok {
		return apperr.NotFoundWith("Movie not found.")
	}
	return nil
}

// cartState is the persisted shape; prices are projected at read time.
type cartState struct {
	id       int64
	userID   string
	movieIDs []int64
}

type fakeCartRepository struct {
	catalog   *fakeCatalog
	purchases *fakePurchaseRepository
	byUser    map[string]*cartState
	nextID    int64
}

func newFakeCartRepository(catalog *fakeCatalog, purchases *fakePurchaseRepository) *fakeCartRepository {
	return &fakeCartRepository{
		catalog:   catalog,
		purchases: purchases,
		byUser:    map[string]*cartState{},
		nextID:    1,
	}
}

func (f *fakeCartRepository) FindByUser(_ context.Context, userID string) (*shop.Cart, error) {
	state, ok := f.byUser[userID]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	cart := &shop.Cart{ID: state.id, UserID: userID, Items: []shop.CartItem{}}
	for index, movieID := range state.movieIDs {
		cart.Items = append(cart.Items, shop.CartItem{
			ID:        int64(index + 1),
			MovieID:   movieID,
			MovieName: fmt.Sprintf("movie-%d", movieID),
			Price:     f.catalog.prices[movieID],
		})
	}
	return cart, nil
}

func (f *fakeCartRepository) Create(_ context.Context, userID string) (*shop.Cart, error) {
	if _, ok := f.byUser[userID]; ok {
		return nil, dberr.ErrConflict
	}
	state := &cartState{id: f.nextID, userID: userID}
	f.nextID++
	f.byUser[userID] = state
	return &shop.Cart{ID: state.id, UserID: userID, Items: []shop.CartItem{}}, nil
}

func (f *fakeCartRepository) AddItem(_ context.Context, cartID, movieID int64) error {
	state := f.byID(cartID)
	for _, existing := range state.movieIDs {
		if existing == movieID {
			return dberr.ErrConflict
		}
	}
	state.movieIDs = append(state.movieIDs, movieID)
	return nil
}

func (f *fakeCartRepository) RemoveItem(_ context.Context, cartID, movieID int64) (bool, error) {
	state := f.byID(cartID)
	for index, existing := range state.movieIDs {
		if existing == movieID {
			state.movieIDs = append(state.movieIDs[:index], state.movieIDs[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCartRepository) Clear(_ context.Context, cartID int64) error {
	f.byID(cartID).movieIDs = nil
	return nil
}

// Pay mirrors the transactional contract: on any duplicate purchase nothing
// is recorded and the cart keeps its items.
func (f *fakeCartRepository) Pay(_ context.Context, userID string, cartID int64, movieIDs []int64) error {
	for _, movieID := range movieIDs {
		if f.purchases.has(userID, movieID) {
			return dberr.ErrConflict
		}
	}
	for _, movieID := range movieIDs {
		f.purchases.add(userID, movieID)
	}
	f.byID(cartID).movieIDs = nil
	return nil
}

func (f *fakeCartRepository) byID(cartID int64) *cartState {
	for _, state := range f.byUser {
		if state.id == cartID {
			return state
		}
	}
	return &cartState{}
}

func (f *fakeCartRepository) deleteByID(cartID int64) {
	for userID, state := range f.byUser {
		if state.id == cartID {
			delete(f.byUser, userID)
			return
		}
	}
}

func (f *fakeCartRepository) exists(cartID int64) bool {
	return f.byID(cartID).id == cartID
}

type purchaseKey struct {
	userID  string
	movieID int64
}

type fakePurchaseRepository struct {
	owned  map[purchaseKey]time.Time
	nextID int64
}

func newFakePurchaseRepository() *fakePurchaseRepository {
	return &fakePurchaseRepository{owned: map[purchaseKey]time.Time{}, nextID: 1}
}

func (f *fakePurchaseRepository) has(userID string, movieID int64) bool {
	_, ok := f.owned[purchaseKey{userID, movieID}]
	return ok
}

func (f *fakePurchaseRepository) add(userID string, movieID int64) {
	f.owned[purchaseKey{userID, movieID}] = time.Now()
}

func (f *fakePurchaseRepository) Exists(_ context.Context, userID string, movieID int64) (bool, error) {
	return f.has(userID, movieID), nil
}

func (f *fakePurchaseRepository) ListByUser(_ context.Context, userID string) ([]*shop.Purchase, error) {
	var out []*shop.Purchase
	for key, at := range f.owned {
		if key.userID == userID {
			f.nextID++
			out = append(out, &shop.Purchase{
				ID:          f.nextID,
				UserID:      key.userID,
				MovieID:     key.movieID,
				PurchasedAt: at,
			})
		}
	}
	return out, nil
}

type fakeOrderRepository struct {
	purchases *fakePurchaseRepository
	carts     *fakeCartRepository
	byID      map[int64]*shop.Order
	nextID    int64

	// beforeConsume and beforeTransition run before the cart-consume and
	// status-transition steps so tests can interleave a racing writer.
	beforeConsume    func()
	beforeTransition func()
}

func newFakeOrderRepository(purchases *fakePurchaseRepository, carts *fakeCartRepository) *fakeOrderRepository {
	return &fakeOrderRepository{
		purchases: purchases,
		carts:     carts,
		byID:      map[int64]*shop.Order{},
		nextID:    1,
	}
}

func (f *fakeOrderRepository) CreateFromCart(_ context.Context, order *shop.Order, cartID int64) error {
	if f.beforeConsume != nil {
		f.beforeConsume()
	}
	// Consuming an already-consumed cart is a conflict, matching the store.
	if !f.carts.exists(cartID) {
		return dberr.ErrConflict
	}

	order.ID = f.nextID
	f.nextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for index := range order.Items {
		order.Items[index].ID = int64(index + 1)
		order.Items[index].OrderID = order.ID
	}

	clone := cloneOrder(order)
	f.byID[order.ID] = clone
	f.carts.deleteByID(cartID)
	return nil
}

func (f *fakeOrderRepository) FindByID(_ context.Context, orderID int64) (*shop.Order, error) {
	order, ok := f.byID[orderID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (f *fakeOrderRepository) ListByUser(_ context.Context, userID string) ([]*shop.Order, error) {
	var out []*shop.Order
	for _, order := range f.byID {
		if order.UserID == userID {
			out = append(out, cloneOrder(order))
		}
	}
	return out, nil
}

func (f *fakeOrderRepository) List(_ context.Context, filter shop.Filter, _, _ int) ([]*shop.Order, int, error) {
	var out []*shop.Order
	for _, order := range f.byID {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	return out, len(out), nil
}

func (f *fakeOrderRepository) HasPendingForMovie(_ context.Context, userID string, movieID int64) (bool, error) {
	for _, order := range f.byID {
		if order.UserID != userID || order.Status != shop.StatusPending {
			continue
		}
		for _, item := range order.Items {
			if item.MovieID == movieID {
				return true, nil
			}
		}
	}
	return false, nil
}

// UpdateStatus mirrors the store's Pending guard: transitioning an order
// that is no longer Pending is a conflict, never an overwrite.
func (f *fakeOrderRepository) UpdateStatus(_ context.Context, orderID int64, status string) error {
	if f.beforeTransition != nil {
		f.beforeTransition()
	}
	order, ok := f.byID[orderID]
	if !ok || order.Status != shop.StatusPending {
		return dberr.ErrConflict
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

// MarkPaid mirrors the transactional contract: a duplicate purchase leaves
// both the status and the ledger untouched, and only Pending orders settle.
func (f *fakeOrderRepository) MarkPaid(_ context.Context, order *shop.Order) error {
	if f.beforeTransition != nil {
		f.beforeTransition()
	}
	stored, ok := f.byID[order.ID]
	if !ok || stored.Status != shop.StatusPending {
		return dberr.ErrConflict
	}

	for _, item := range stored.Items {
		if f.purchases.has(stored.UserID, item.MovieID) {
			return dberr.ErrConflict
		}
	}
	for _, item := range stored.Items {
		f.purchases.add(stored.UserID, item.MovieID)
	}

	stored.Status = shop.StatusPaid
	stored.UpdatedAt = time.Now()
	order.Status = shop.StatusPaid
	return nil
}

func cloneOrder(order *shop.Order) *shop.Order {
	clone := *order
	clone.Items = append([]shop.OrderItem{}, order.Items...)
	return &clone
}

// # Harness

type harness struct {
	catalog   *fakeCatalog
	carts     *fakeCartRepository
	purchases *fakePurchaseRepository
	orders    *fakeOrderRepository

	cartService  *shop.CartService
	orderService *shop.OrderService
}

func newHarness() *harness {
	catalog := &fakeCatalog{prices: map[int64]float64{
		1: 9.99,
		2: 14.50,
		3: 4.25,
	}}
	purchases := newFakePurchaseRepository()
	carts := newFakeCartRepository(catalog, purchases)
	orders := newFakeOrderRepository(purchases, carts)

	return &harness{
		catalog:      catalog,
		carts:        carts,
		purchases:    purchases,
		orders:       orders,
		cartService:  shop.NewCartService(carts, purchases, catalog),
		orderService: shop.NewOrderService(carts, purchases, orders),
	}
}

// fillCart puts the given movies into the user's cart.
func (h *harness) fillCart(t *testing.T, userID string, movieIDs ...int64) {
	t.Helper()
	for _, movieID := range movieIDs {
		added, err := h.cartService.AddItem(context.Background(), userID, movieID)
		require.NoError(t, err)
		require.True(t, added)
	}
}

// # Cart Tests

func TestCartService_GetOrCreate(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	first, err := h.cartService.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, first.Items)

	second, err := h.cartService.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated access must resolve to the same cart")

	other, err := h.cartService.GetOrCreate(ctx, "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestCartService_AddItem(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	t.Run("unknown movie is a 404", func(t *testing.T) {
		_, err := h.cartService.AddItem(ctx, "user-1", 999)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("first add inserts, second is a no-op", func(t *testing.T) {
		added, err := h.cartService.AddItem(ctx, "user-1", 1)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = h.cartService.AddItem(ctx, "user-1", 1)
		require.NoError(t, err)
		assert.False(t, added, "duplicate add must be the no-op success path")

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
	})

	t.Run("purchased movie is rejected with 400", func(t *testing.T) {
		h.purchases.add("user-1", 2)

		_, err := h.cartService.AddItem(ctx, "user-1", 2)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "You have already purchased this movie.", ae.Message)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	t.Run("no cart yet", func(t *testing.T) {
		err := h.cartService.RemoveItem(ctx, "user-1", 1)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "Cart not found.", ae.Message)
	})

	h.fillCart(t, "user-1", 1, 2)

	t.Run("movie not in cart", func(t *testing.T) {
		err := h.cartService.RemoveItem(ctx, "user-1", 3)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Movie not found in cart.", ae.Message)
	})

	t.Run("removes exactly one item", func(t *testing.T) {
		require.NoError(t, h.cartService.RemoveItem(ctx, "user-1", 1))

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(2), cart.Items[0].MovieID)
	})
}

func TestCartService_Clear(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	err := h.cartService.Clear(ctx, "user-1")
	require.Error(t, err)
	assert.Equal(t, "Cart not found.", apperr.As(err).Message)

	h.fillCart(t, "user-1", 1, 2)
	require.NoError(t, h.cartService.Clear(ctx, "user-1"))

	cart, err := h.cartService.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Clearing an already-empty cart stays a success.
	require.NoError(t, h.cartService.Clear(ctx, "user-1"))
}

func TestCartService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("missing or empty cart is a 400", func(t *testing.T) {
		h := newHarness()

		err := h.cartService.Pay(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, "Cart is empty.", apperr.As(err).Message)

		_, err = h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		err = h.cartService.Pay(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, "Cart is empty.", apperr.As(err).Message)
	})

	t.Run("checkout records purchases and empties the cart", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)

		require.NoError(t, h.cartService.Pay(ctx, "user-1"))

		assert.True(t, h.purchases.has("user-1", 1))
		assert.True(t, h.purchases.has("user-1", 2))

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)

		// A paid movie can never re-enter the cart.
		_, err = h.cartService.AddItem(ctx, "user-1", 1)
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("one already-purchased movie fails the whole batch", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)
		h.purchases.add("user-1", 2)

		err := h.cartService.Pay(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, 409, apperr.As(err).HTTPStatus)

		assert.False(t, h.purchases.has("user-1", 1), "nothing may be recorded on a failed checkout")

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2, "the cart must survive a failed checkout")
	})
}

// # Order Tests

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("missing or empty cart is a 404", func(t *testing.T) {
		h := newHarness()

		_, err := h.orderService.Create(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, "Cart not found or is empty", apperr.As(err).Message)

		_, err = h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		_, err = h.orderService.Create(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("cart converts into a Pending order with snapshots", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)

		order, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, shop.StatusPending, order.Status)
		assert.InDelta(t, 24.49, order.TotalAmount, 0.001)
		require.Len(t, order.Items, 2)

		// The cart is consumed; the next access starts a fresh one.
		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.NotEqual(t, int64(0), cart.ID)
	})

	t.Run("snapshots survive later price changes", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1)

		order, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)

		h.catalog.prices[1] = 99.99

		reloaded, err := h.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.InDelta(t, 9.99, reloaded.Items[0].PriceAtOrder, 0.001)
		assert.InDelta(t, 9.99, reloaded.TotalAmount, 0.001)
	})

	t.Run("purchased movie blocks the whole order", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)
		h.purchases.add("user-1", 2)

		_, err := h.orderService.Create(ctx, "user-1")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
		assert.Equal(t, "Movie with ID 2 is already purchased.", ae.Message)

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2, "the cart must be intact after a rejected order")
	})

	t.Run("racing order that consumed the cart first conflicts", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)

		cart, err := h.cartService.GetOrCreate(ctx, "user-1")
		require.NoError(t, err)

		// The racing writer wins between the pre-checks and the consume step.
		h.orders.beforeConsume = func() {
			h.orders.beforeConsume = nil
			h.carts.deleteByID(cart.ID)
		}

		_, err = h.orderService.Create(ctx, "user-1")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
		assert.Empty(t, h.orders.byID, "the losing order must not be persisted")
	})

	t.Run("movie already in a pending order blocks a second order", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1)
		_, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)

		h.fillCart(t, "user-1", 1)
		_, err = h.orderService.Create(ctx, "user-1")
		require.Error(t, err)
		assert.Equal(t, "A pending order for movie with ID 1 already exists.", apperr.As(err).Message)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.fillCart(t, "user-1", 1)
	order, err := h.orderService.Create(ctx, "user-1")
	require.NoError(t, err)

	t.Run("foreign orders look absent", func(t *testing.T) {
		_, err := h.orderService.Cancel(ctx, order.ID, "user-2")
		require.Error(t, err)
		assert.Equal(t, "Order not found", apperr.As(err).Message)
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		canceled, err := h.orderService.Cancel(ctx, order.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, shop.StatusCanceled, canceled.Status)

		_, err = h.orderService.Cancel(ctx, order.ID, "user-1")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
		assert.Equal(t, "Order status is 'Canceled', cannot be canceled.", ae.Message)
	})

	t.Run("canceled movies can be ordered again", func(t *testing.T) {
		h.fillCart(t, "user-1", 1)
		_, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)
	})

	t.Run("cancel racing a settlement conflicts", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1)
		order, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)

		// A concurrent payment settles between the read and the transition.
		h.orders.beforeTransition = func() {
			h.orders.beforeTransition = nil
			_, err := h.orderService.Pay(ctx, order.ID, "user-1")
			require.NoError(t, err)
		}

		_, err = h.orderService.Cancel(ctx, order.ID, "user-1")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)

		reloaded, err := h.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, shop.StatusPaid, reloaded.Status, "the settled order must not be overwritten")
		assert.True(t, h.purchases.has("user-1", 1), "the recorded purchase must survive the losing cancel")
	})
}

func TestOrderService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement records purchases and is terminal", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 3)
		order, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)

		paid, err := h.orderService.Pay(ctx, order.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, shop.StatusPaid, paid.Status)
		assert.True(t, h.purchases.has("user-1", 1))
		assert.True(t, h.purchases.has("user-1", 3))

		_, err = h.orderService.Pay(ctx, order.ID, "user-1")
		require.Error(t, err)
		assert.Equal(t, "Order status is 'Paid', cannot be paid.", apperr.As(err).Message)

		_, err = h.orderService.Cancel(ctx, order.ID, "user-1")
		require.Error(t, err)
		assert.Equal(t, "Order status is 'Paid', cannot be canceled.", apperr.As(err).Message)
	})

	t.Run("duplicate purchase aborts the settlement", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "user-1", 1, 2)
		order, err := h.orderService.Create(ctx, "user-1")
		require.NoError(t, err)

		// The movie gets bought through another path before settlement.
		h.purchases.add("user-1", 2)

		_, err = h.orderService.Pay(ctx, order.ID, "user-1")
		require.Error(t, err)
		assert.Equal(t, 409, apperr.As(err).HTTPStatus)

		reloaded, err := h.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, shop.StatusPending, reloaded.Status, "a failed settlement must not flip the status")
		assert.False(t, h.purchases.has("user-1", 1))
	})
}

func TestOrderService_ListMine(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.orderService.ListMine(ctx, "user-1")
	require.Error(t, err)
	assert.Equal(t, "No orders found", apperr.As(err).Message)

	h.fillCart(t, "user-1", 1)
	_, err = h.orderService.Create(ctx, "user-1")
	require.NoError(t, err)

	orders, err := h.orderService.ListMine(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
}

func TestOrderService_ListAll(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.fillCart(t, "user-1", 1)
	pending, err := h.orderService.Create(ctx, "user-1")
	require.NoError(t, err)

	h.fillCart(t, "user-2", 2)
	order2, err := h.orderService.Create(ctx, "user-2")
	require.NoError(t, err)
	_, err = h.orderService.Pay(ctx, order2.ID, "user-2")
	require.NoError(t, err)

	t.Run("invalid filters are client errors", func(t *testing.T) {
		cases := []struct {
			name   string
			filter shop.Filter
		}{
			{"unknown status", shop.Filter{Status: "Shipped"}},
			{"unknown sort key", shop.Filter{SortBy: "price"}},
			{"unknown sort order", shop.Filter{SortOrder: "sideways"}},
		}
		for _, testCase := range cases {
			t.Run(testCase.name, func(t *testing.T) {
				_, _, err := h.orderService.ListAll(ctx, testCase.filter, 20, 0)
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, 400, ae.HTTPStatus)
			})
		}
	})

	t.Run("inverted date range matches nothing", func(t *testing.T) {
		start := time.Now().Add(24 * time.Hour)
		end := start.AddDate(0, 0, -7)
		_, _, err := h.orderService.ListAll(ctx, shop.Filter{StartDate: &start, EndDate: &end}, 20, 0)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "No orders found matching the criteria.", ae.Message)
	})

	t.Run("status filter is case-normalized", func(t *testing.T) {
		orders, total, err := h.orderService.ListAll(ctx, shop.Filter{Status: "paid"}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, order2.ID, orders[0].ID)
	})

	t.Run("user filter", func(t *testing.T) {
		orders, _, err := h.orderService.ListAll(ctx, shop.Filter{UserID: "user-1"}, 20, 0)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, pending.ID, orders[0].ID)
	})

	t.Run("empty result is a 404", func(t *testing.T) {
		_, _, err := h.orderService.ListAll(ctx, shop.Filter{Status: "Canceled"}, 20, 0)
		require.Error(t, err)
		assert.Equal(t, "No orders found matching the criteria.", apperr.As(err).Message)
	})
}

func TestOrderService_ListPurchases(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	purchases, err := h.orderService.ListPurchases(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, purchases, "an empty library is not an error")

	h.fillCart(t, "user-1", 1, 2)
	require.NoError(t, h.cartService.Pay(ctx, "user-1"))

	purchases, err = h.orderService.ListPurchases(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, purchases, 2)
}
