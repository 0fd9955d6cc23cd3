// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/pkg/slice"
)

// # Contracts

// MovieGate confirms a movie exists before it enters a cart. The catalog
// service satisfies this contract.
type MovieGate interface {
	MovieExists(context context.Context, movieID int64) error
}

// CartService orchestrates business rules for the shopping cart.
type CartService struct {
	carts     CartRepository
	purchases PurchaseRepository
	movies    MovieGate
}

// NewCartService constructs a new [CartService].
func NewCartService(carts CartRepository, purchases PurchaseRepository, movies MovieGate) *CartService {
	return &CartService{
		carts:     carts,
		purchases: purchases,
		movies:    movies,
	}
}

/*
GetOrCreate returns the user's cart, creating an empty one on first access.

Description: Idempotent — repeated calls for the same user always resolve to
the same cart. A creation race against another request of the same user is
absorbed by the UNIQUE userid constraint and resolved with a re-read.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Cart: The user's singleton cart with items
  - err: Storage failures
*/
func (service *CartService) GetOrCreate(context context.Context, userID string) (*Cart, error) {
	cart, err := service.carts.FindByUser(context, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, fmt.Errorf("shop_service_find_cart_failed: %w", err)
	}

	cart, err = service.carts.Create(context, userID)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			// Lost a creation race; the winner's cart is ours too.
			return service.carts.FindByUser(context, userID)
		}
		return nil, fmt.Errorf("shop_service_create_cart_failed: %w", err)
	}

	return cart, nil
}

/*
AddItem puts a movie into the user's cart.

Description: Already-purchased movies are rejected — the ledger is permanent
and a second purchase can never happen. A movie already sitting in the cart
is a no-op success, including when the duplicate only shows up as a unique
violation under concurrency.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64

Returns:
  - bool: true when a new item row was inserted, false for the no-op path
  - err: NotFound (movie absent), BadRequest (already purchased), or storage failures
*/
func (service *CartService) AddItem(context context.Context, userID string, movieID int64) (bool, error) {
	if err := service.movies.MovieExists(context, movieID); err != nil {
		return false, err
	}

	owned, err := service.purchases.Exists(context, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("shop_service_purchase_check_failed: %w", err)
	}
	if owned {
		return false, apperr.BadRequest("You have already purchased this movie.")
	}

	cart, err := service.GetOrCreate(context, userID)
	if err != nil {
		return false, err
	}

	for _, item := range cart.Items {
		if item.MovieID == movieID {
			return false, nil
		}
	}

	if err := service.carts.AddItem(context, cart.ID, movieID); err != nil {
		if dberr.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("shop_service_add_item_failed: %w", err)
	}

	return true, nil
}

/*
RemoveItem takes a single movie out of the user's cart.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64

Returns:
  - err: NotFound (no cart, or movie not in it), or storage failures
*/
func (service *CartService) RemoveItem(context context.Context, userID string, movieID int64) error {
	cart, err := service.requireCart(context, userID)
	if err != nil {
		return err
	}

	removed, err := service.carts.RemoveItem(context, cart.ID, movieID)
	if err != nil {
		return fmt.Errorf("shop_service_remove_item_failed: %w", err)
	}
	if !removed {
		return apperr.NotFoundWith("Movie not found in cart.")
	}

	return nil
}

/*
Clear empties the user's cart. Clearing an already-empty cart succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: NotFound (no cart), or storage failures
*/
func (service *CartService) Clear(context context.Context, userID string) error {
	cart, err := service.requireCart(context, userID)
	if err != nil {
		return err
	}

	if err := service.carts.Clear(context, cart.ID); err != nil {
		return fmt.Errorf("shop_service_clear_cart_failed: %w", err)
	}

	return nil
}

/*
Pay checks out the cart directly, without creating an order.

Description: Each item is pre-checked against the purchase ledger for a
readable error; the transactional write re-enforces the same rule through the
UNIQUE (userid, movieid) constraint, so a race can only fail the whole batch,
never half of it.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: BadRequest (missing or empty cart), Conflict (a movie already
    purchased), or storage failures
*/
func (service *CartService) Pay(context context.Context, userID string) error {
	cart, err := service.carts.FindByUser(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.BadRequest("Cart is empty.")
		}
		return fmt.Errorf("shop_service_find_cart_failed: %w", err)
	}
	if len(cart.Items) == 0 {
		return apperr.BadRequest("Cart is empty.")
	}

	for _, item := range cart.Items {
		owned, err := service.purchases.Exists(context, userID, item.MovieID)
		if err != nil {
			return fmt.Errorf("shop_service_purchase_check_failed: %w", err)
		}
		if owned {
			return apperr.Conflict(fmt.Sprintf("Movie with ID %d is already purchased.", item.MovieID))
		}
	}

	movieIDs := slice.Map(cart.Items, func(item CartItem) int64 { return item.MovieID })

	if err := service.carts.Pay(context, userID, cart.ID, movieIDs); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("shop_service_pay_cart_failed: %w", err)
	}

	return nil
}

// requireCart resolves the user's cart or reports its absence as a 404.
func (service *CartService) requireCart(context context.Context, userID string) (*Cart, error) {
	cart, err := service.carts.FindByUser(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundWith("Cart not found.")
		}
		return nil, fmt.Errorf("shop_service_find_cart_failed: %w", err)
	}
	return cart, nil
}
