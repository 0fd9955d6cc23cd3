// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Repository contracts for the shop domain.
package shop

import "context"

/*
CartRepository persists carts and their items.

Item rows reference movies by id only; FindByUser projects the current
catalogue name and price onto each item at read time.
*/
type CartRepository interface {
	// FindByUser returns the user's cart with its items, or dberr.ErrNotFound
	// when the user has no cart yet.
	FindByUser(context context.Context, userID string) (*Cart, error)

	// Create inserts an empty cart for the user.
	Create(context context.Context, userID string) (*Cart, error)

	// AddItem inserts a cart item. A duplicate (cart, movie) pair surfaces
	// as a unique violation for the caller to interpret.
	AddItem(context context.Context, cartID, movieID int64) error

	// RemoveItem deletes a single item and reports whether a row was hit.
	RemoveItem(context context.Context, cartID, movieID int64) (bool, error)

	// Clear deletes every item from the cart, keeping the cart row.
	Clear(context context.Context, cartID int64) error

	// Pay records one purchase per movie and empties the cart in a single
	// transaction. A purchase unique violation aborts the whole batch.
	Pay(context context.Context, userID string, cartID int64, movieIDs []int64) error
}

/*
PurchaseRepository reads the permanent purchase ledger. Writes happen only
inside cart payment and order payment transactions.
*/
type PurchaseRepository interface {
	// Exists reports whether the user already owns the movie.
	Exists(context context.Context, userID string, movieID int64) (bool, error)

	// ListByUser returns the user's purchases, most recent first.
	ListByUser(context context.Context, userID string) ([]*Purchase, error)
}

/*
OrderRepository persists orders and their price-snapshot items.
*/
type OrderRepository interface {
	// CreateFromCart inserts the order with its items and deletes the source
	// cart in a single transaction. The order's ID and timestamps are
	// populated on success.
	CreateFromCart(context context.Context, order *Order, cartID int64) error

	// FindByID returns an order with its items, or dberr.ErrNotFound.
	FindByID(context context.Context, orderID int64) (*Order, error)

	// ListByUser returns the user's orders with items, most recent first.
	ListByUser(context context.Context, userID string) ([]*Order, error)

	// List returns one admin page of orders matching the filter, plus the
	// total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error)

	// HasPendingForMovie reports whether the user already has a Pending
	// order containing the movie.
	HasPendingForMovie(context context.Context, userID string, movieID int64) (bool, error)

	// UpdateStatus moves a Pending order to the given status. A conflict is
	// returned when the order is no longer Pending.
	UpdateStatus(context context.Context, orderID int64, status string) error

	// MarkPaid sets a Pending order to Paid and records one purchase per
	// item in a single transaction.
	MarkPaid(context context.Context, order *Order) error
}
