// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shop

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/pkg/slice"
)

// OrderService orchestrates the order state machine and the purchase ledger.
type OrderService struct {
	carts     CartRepository
	purchases PurchaseRepository
	orders    OrderRepository
}

// NewOrderService constructs a new [OrderService].
func NewOrderService(carts CartRepository, purchases PurchaseRepository, orders OrderRepository) *OrderService {
	return &OrderService{
		carts:     carts,
		purchases: purchases,
		orders:    orders,
	}
}

/*
Create converts the user's cart into a Pending order.

Description: Every item is gated against the purchase ledger and against the
user's other Pending orders before anything is written; the order, its price
snapshots, and the cart deletion then commit in one transaction. Any per-item
failure leaves the cart untouched.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Order: The new Pending order with snapshot items
  - err: NotFound (missing/empty cart), Conflict (purchased or already
    pending movie), or storage failures
*/
func (service *OrderService) Create(context context.Context, userID string) (*Order, error) {
	cart, err := service.carts.FindByUser(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundWith("Cart not found or is empty")
		}
		return nil, fmt.Errorf("shop_service_find_cart_failed: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperr.NotFoundWith("Cart not found or is empty")
	}

	for _, cartItem := range cart.Items {
		owned, err := service.purchases.Exists(context, userID, cartItem.MovieID)
		if err != nil {
			return nil, fmt.Errorf("shop_service_purchase_check_failed: %w", err)
		}
		if owned {
			return nil, apperr.Conflict(fmt.Sprintf("Movie with ID %d is already purchased.", cartItem.MovieID))
		}

		pending, err := service.orders.HasPendingForMovie(context, userID, cartItem.MovieID)
		if err != nil {
			return nil, fmt.Errorf("shop_service_pending_check_failed: %w", err)
		}
		if pending {
			return nil, apperr.Conflict(fmt.Sprintf("A pending order for movie with ID %d already exists.", cartItem.MovieID))
		}
	}

	items := slice.Map(cart.Items, func(cartItem CartItem) OrderItem {
		return OrderItem{
			MovieID:      cartItem.MovieID,
			PriceAtOrder: cartItem.Price, // snapshot taken here, never re-read
		}
	})
	total := slice.Reduce(items, 0, func(sum float64, item OrderItem) float64 {
		return sum + item.PriceAtOrder
	})

	order := &Order{
		UserID:      userID,
		Status:      StatusPending,
		TotalAmount: roundMoney(total),
		Items:       items,
	}

	if err := service.orders.CreateFromCart(context, order, cart.ID); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("shop_service_create_order_failed: %w", err)
	}

	return order, nil
}

/*
Cancel moves a Pending order to Canceled.

Description: Ownership failures and missing orders are indistinguishable to
the caller. Terminal states (Paid, Canceled) reject the transition, so an
order can never be canceled twice.

Parameters:
  - context: context.Context
  - orderID: int64
  - userID: string

Returns:
  - *Order: The canceled order
  - err: NotFound (absent or foreign order), Conflict (not Pending), or
    storage failures
*/
func (service *OrderService) Cancel(context context.Context, orderID int64, userID string) (*Order, error) {
	order, err := service.requireOwnedOrder(context, orderID, userID)
	if err != nil {
		return nil, err
	}

	if order.Status != StatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("Order status is '%s', cannot be canceled.", order.Status))
	}

	if err := service.orders.UpdateStatus(context, orderID, StatusCanceled); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("shop_service_cancel_order_failed: %w", err)
	}

	order.Status = StatusCanceled
	return order, nil
}

/*
Pay settles a Pending order.

Description: The status flip and the purchase ledger writes commit in one
transaction; a (userid, movieid) unique violation aborts the settlement with
nothing recorded.

Parameters:
  - context: context.Context
  - orderID: int64
  - userID: string

Returns:
  - *Order: The paid order
  - err: NotFound (absent or foreign order), Conflict (not Pending, or a
    movie already purchased), or storage failures
*/
func (service *OrderService) Pay(context context.Context, orderID int64, userID string) (*Order, error) {
	order, err := service.requireOwnedOrder(context, orderID, userID)
	if err != nil {
		return nil, err
	}

	if order.Status != StatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("Order status is '%s', cannot be paid.", order.Status))
	}

	if err := service.orders.MarkPaid(context, order); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("shop_service_pay_order_failed: %w", err)
	}

	return order, nil
}

/*
ListMine returns all of the user's orders, most recent first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Order: Hydrated entities
  - err: NotFound when the user has no orders, or storage failures
*/
func (service *OrderService) ListMine(context context.Context, userID string) ([]*Order, error) {
	orders, err := service.orders.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("shop_service_list_orders_failed: %w", err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFoundWith("No orders found")
	}

	return orders, nil
}

/*
ListAll returns one admin page of orders matching the filter.

Description: The status filter is case-normalized against the order status
enum; sort key and direction run against allow-lists. Date bounds are
inclusive on both ends.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int (pre-clamped by pagination)
  - offset: int

Returns:
  - []*Order: Page of hydrated entities
  - int: Total match count
  - err: BadRequest on invalid filter/sort, NotFound on an empty page
*/
func (service *OrderService) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	if filter.Status != "" {
		status, ok := normalizeStatus(filter.Status)
		if !ok {
			return nil, 0, apperr.BadRequest(fmt.Sprintf("Invalid status: '%s'", filter.Status))
		}
		filter.Status = status
	}
	if filter.SortBy != "" && !slices.Contains(AllowedOrderSortKeys, filter.SortBy) {
		return nil, 0, apperr.BadRequest(fmt.Sprintf("Invalid sort key: '%s'", filter.SortBy))
	}
	if filter.SortOrder != "" {
		order := strings.ToLower(filter.SortOrder)
		if order != "asc" && order != "desc" {
			return nil, 0, apperr.BadRequest(fmt.Sprintf("Invalid sort order: '%s'", filter.SortOrder))
		}
		filter.SortOrder = order
	}
	// An inverted date range is not rejected; it simply matches nothing and
	// surfaces as the empty-page 404 below.
	orders, total, err := service.orders.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("shop_service_list_all_orders_failed: %w", err)
	}
	if len(orders) == 0 {
		return nil, 0, apperr.NotFoundWith("No orders found matching the criteria.")
	}

	return orders, total, nil
}

/*
ListPurchases returns the user's permanent purchase ledger, most recent
first. An empty library is an empty 200, not an error.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Purchase: Ledger rows
  - err: Storage failures
*/
func (service *OrderService) ListPurchases(context context.Context, userID string) ([]*Purchase, error) {
	purchases, err := service.purchases.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("shop_service_list_purchases_failed: %w", err)
	}
	if purchases == nil {
		purchases = []*Purchase{}
	}

	return purchases, nil
}

// requireOwnedOrder loads an order and hides foreign ones behind a 404.
func (service *OrderService) requireOwnedOrder(context context.Context, orderID int64, userID string) (*Order, error) {
	order, err := service.orders.FindByID(context, orderID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundWith("Order not found")
		}
		return nil, fmt.Errorf("shop_service_find_order_failed: %w", err)
	}
	if order.UserID != userID {
		return nil, apperr.NotFoundWith("Order not found")
	}

	return order, nil
}

// normalizeStatus matches raw input case-insensitively against the status
// enum and returns the canonical spelling.
func normalizeStatus(raw string) (string, bool) {
	for _, status := range OrderStatuses {
		if strings.EqualFold(raw, status) {
			return status, true
		}
	}
	return "", false
}

// roundMoney keeps totals at cent precision.
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
