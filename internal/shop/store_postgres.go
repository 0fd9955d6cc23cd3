// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the shop repositories.
//
// # Transactions
//
// Every multi-row mutation (cart payment, cart-to-order conversion, order
// payment) runs inside a single transaction so the purchase ledger, the
// orders, and the cart can never disagree after a partial failure.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinevault/internal/platform/database/schema"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
)

// # Cart Repository

// cartRepository implements [CartRepository] using pgx.
type cartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository constructs a PostgreSQL backed cart store.
func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &cartRepository{pool: pool}
}

/*
FindByUser returns the user's cart hydrated with its items.

Description: Items are projected with the movie's current catalogue name and
price; nothing is snapshotted at cart level.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Cart: Cart with items, oldest item first
  - error: dberr.ErrNotFound when the user has no cart, or execution failures
*/
func (repository *cartRepository) FindByUser(context context.Context, userID string) (*Cart, error) {
	const query = `
		SELECT id, userid, createdat
		FROM shop.cart
		WHERE userid = $1`

	cart := &Cart{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to find cart")
	}

	const items = `
		SELECT i.id, i.movieid, m.name, m.price, i.addedat
		FROM shop.cartitem i
		JOIN catalog.movie m ON m.id = i.movieid
		WHERE i.cartid = $1
		ORDER BY i.addedat ASC, i.id ASC`

	rows, err := repository.pool.Query(context, items, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []CartItem{}
	for rows.Next() {
		var item CartItem
		err := rows.Scan(&item.ID, &item.MovieID, &item.MovieName, &item.Price, &item.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	return cart, nil
}

/*
Create inserts an empty cart for the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Cart: The new cart with no items
  - error: apperr.Conflict when the user already has a cart, or execution failures
*/
func (repository *cartRepository) Create(context context.Context, userID string) (*Cart, error) {
	const query = `
		INSERT INTO shop.cart (userid, createdat)
		VALUES ($1, NOW())
		RETURNING id, createdat`

	cart := &Cart{UserID: userID, Items: []CartItem{}}
	err := repository.pool.QueryRow(context, query, userID).Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to create cart")
	}

	return cart, nil
}

/*
AddItem inserts a single cart item row.

Parameters:
  - context: context.Context
  - cartID: int64
  - movieID: int64

Returns:
  - error: apperr.Conflict when the movie is already in the cart,
    apperr.BadRequest on a missing movie FK, or execution failures
*/
func (repository *cartRepository) AddItem(context context.Context, cartID, movieID int64) error {
	const query = `
		INSERT INTO shop.cartitem (cartid, movieid, addedat)
		VALUES ($1, $2, NOW())`

	if _, err := repository.pool.Exec(context, query, cartID, movieID); err != nil {
		return dberr.Wrap(err, "postgres: failed to add cart item")
	}

	return nil
}

/*
RemoveItem deletes one movie from the cart.

Parameters:
  - context: context.Context
  - cartID: int64
  - movieID: int64

Returns:
  - bool: Whether a row was actually deleted
  - error: Execution failures
*/
func (repository *cartRepository) RemoveItem(context context.Context, cartID, movieID int64) (bool, error) {
	const query = `DELETE FROM shop.cartitem WHERE cartid = $1 AND movieid = $2`

	tag, err := repository.pool.Exec(context, query, cartID, movieID)
	if err != nil {
		return false, dberr.Wrap(err, "postgres: failed to remove cart item")
	}

	return tag.RowsAffected() > 0, nil
}

/*
Clear deletes every item from the cart. The cart row itself survives.

Parameters:
  - context: context.Context
  - cartID: int64

Returns:
  - error: Execution failures
*/
func (repository *cartRepository) Clear(context context.Context, cartID int64) error {
	const query = `DELETE FROM shop.cartitem WHERE cartid = $1`

	if _, err := repository.pool.Exec(context, query, cartID); err != nil {
		return dberr.Wrap(err, "postgres: failed to clear cart")
	}

	return nil
}

/*
Pay converts a cart directly into purchases.

Description: Runs in a single transaction — one shop.purchase row per movie,
then the cart is emptied. A duplicate purchase aborts the whole batch, so a
partially paid cart can never exist.

Parameters:
  - context: context.Context
  - userID: string
  - cartID: int64
  - movieIDs: []int64

Returns:
  - error: apperr.Conflict when any movie is already purchased, or execution failures
*/
func (repository *cartRepository) Pay(context context.Context, userID string, cartID int64, movieIDs []int64) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin cart payment: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Record one purchase per movie ──
	const insert = `
		INSERT INTO shop.purchase (userid, movieid, purchasedat)
		VALUES ($1, $2, NOW())`

	for _, movieID := range movieIDs {
		if _, err := transaction.Exec(context, insert, userID, movieID); err != nil {
			return dberr.Wrap(err, "postgres: failed to record purchase")
		}
	}

	// ── 2. Empty the cart ──
	const clear = `DELETE FROM shop.cartitem WHERE cartid = $1`
	if _, err := transaction.Exec(context, clear, cartID); err != nil {
		return dberr.Wrap(err, "postgres: failed to clear paid cart")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit cart payment: %w", err)
	}

	return nil
}

// # Purchase Repository

// purchaseRepository implements [PurchaseRepository] using pgx.
type purchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository constructs a PostgreSQL backed purchase store.
func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepository{pool: pool}
}

/*
Exists reports whether the user already owns the movie.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64

Returns:
  - bool: Ownership flag
  - error: Execution failures
*/
func (repository *purchaseRepository) Exists(context context.Context, userID string, movieID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM shop.purchase WHERE userid = $1 AND movieid = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, userID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check purchase: %w", err)
	}

	return exists, nil
}

/*
ListByUser returns all of a user's purchases, most recent first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Purchase: Ledger rows
  - error: Execution failures
*/
func (repository *purchaseRepository) ListByUser(context context.Context, userID string) ([]*Purchase, error) {
	const query = `
		SELECT id, userid, movieid, purchasedat
		FROM shop.purchase
		WHERE userid = $1
		ORDER BY purchasedat DESC, id DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*Purchase
	for rows.Next() {
		purchase := &Purchase{}
		err := rows.Scan(&purchase.ID, &purchase.UserID, &purchase.MovieID, &purchase.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	return purchases, nil
}

// # Order Repository

// orderRepository implements [OrderRepository] using pgx.
type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs a PostgreSQL backed order store.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

/*
CreateFromCart persists an order and consumes the source cart.

Description: Runs in a single transaction — the order header, one item row
per cart entry with its price snapshot, then the cart row is deleted (item
rows cascade). The order's ID, item IDs, and timestamps are populated.

Parameters:
  - context: context.Context
  - order: *Order (Status, TotalAmount, and Items pre-computed by the caller)
  - cartID: int64

Returns:
  - error: Execution failures
*/
func (repository *orderRepository) CreateFromCart(context context.Context, order *Order, cartID int64) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin order creation: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Insert the order header ──
	const header = `
		INSERT INTO shop."order" (userid, status, totalamount, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	err = transaction.QueryRow(context, header,
		order.UserID,
		order.Status,
		order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to create order")
	}

	// ── 2. Insert the price-snapshot items ──
	const item = `
		INSERT INTO shop.orderitem (orderid, movieid, priceatorder)
		VALUES ($1, $2, $3)
		RETURNING id`

	for index := range order.Items {
		order.Items[index].OrderID = order.ID
		err := transaction.QueryRow(context, item,
			order.ID,
			order.Items[index].MovieID,
			order.Items[index].PriceAtOrder,
		).Scan(&order.Items[index].ID)
		if err != nil {
			return dberr.Wrap(err, "postgres: failed to create order item")
		}
	}

	// ── 3. Consume the cart ──
	// Zero rows means a racing order already consumed this cart; rolling
	// back here is what prevents duplicate pending orders for its movies.
	const consume = `DELETE FROM shop.cart WHERE id = $1`
	tag, err := transaction.Exec(context, consume, cartID)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to consume cart")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrConflict
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit order creation: %w", err)
	}

	return nil
}

/*
FindByID returns a single order with its items.

Parameters:
  - context: context.Context
  - orderID: int64

Returns:
  - *Order: Hydrated entity
  - error: dberr.ErrNotFound or execution failures
*/
func (repository *orderRepository) FindByID(context context.Context, orderID int64) (*Order, error) {
	const query = `
		SELECT id, userid, status, totalamount, createdat, updatedat
		FROM shop."order"
		WHERE id = $1`

	order := &Order{}
	err := repository.pool.QueryRow(context, query, orderID).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to find order")
	}

	itemsByOrder, err := repository.loadItems(context, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[order.ID]

	return order, nil
}

/*
ListByUser returns all of a user's orders with items, most recent first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Order: Hydrated entities
  - error: Execution failures
*/
func (repository *orderRepository) ListByUser(context context.Context, userID string) ([]*Order, error) {
	const query = `
		SELECT id, userid, status, totalamount, createdat, updatedat
		FROM shop."order"
		WHERE userid = $1
		ORDER BY createdat DESC, id DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list orders: %w", err)
	}

	orders, err := scanOrders(rows, nil)
	if err != nil {
		return nil, err
	}

	if err := repository.attachItems(context, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

/*
List returns one admin page of orders matching the filter.

Description: The WHERE clause is assembled incrementally with positional
arguments; date bounds are inclusive. The total match count rides on each row
via COUNT(*) OVER().

Parameters:
  - context: context.Context
  - filter: Filter (pre-validated by the service)
  - limit: int
  - offset: int

Returns:
  - []*Order: Page of hydrated entities
  - int: Total match count
  - error: Execution failures
*/
func (repository *orderRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	var builder strings.Builder
	arguments := []any{}
	argID := 1

	builder.WriteString(`
		SELECT id, userid, status, totalamount, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM shop."order"
		WHERE TRUE`)

	if filter.UserID != "" {
		builder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ShopOrder.UserID, argID))
		arguments = append(arguments, filter.UserID)
		argID++
	}
	if filter.Status != "" {
		builder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ShopOrder.Status, argID))
		arguments = append(arguments, filter.Status)
		argID++
	}
	if filter.StartDate != nil {
		builder.WriteString(fmt.Sprintf(" AND %s >= $%d", schema.ShopOrder.CreatedAt, argID))
		arguments = append(arguments, *filter.StartDate)
		argID++
	}
	if filter.EndDate != nil {
		builder.WriteString(fmt.Sprintf(" AND %s <= $%d", schema.ShopOrder.CreatedAt, argID))
		arguments = append(arguments, *filter.EndDate)
		argID++
	}

	sortColumn := schema.ShopOrder.CreatedAt
	switch filter.SortBy {
	case "total_amount":
		sortColumn = schema.ShopOrder.TotalAmount
	case "user_id":
		sortColumn = schema.ShopOrder.UserID
	case "status":
		sortColumn = schema.ShopOrder.Status
	}

	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY %s %s, %s ASC", sortColumn, direction, schema.ShopOrder.ID))
	builder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	arguments = append(arguments, limit, offset)

	rows, err := repository.pool.Query(context, builder.String(), arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list all orders: %w", err)
	}

	var totalCount int
	orders, err := scanOrders(rows, &totalCount)
	if err != nil {
		return nil, 0, err
	}

	if err := repository.attachItems(context, orders); err != nil {
		return nil, 0, err
	}

	return orders, totalCount, nil
}

/*
HasPendingForMovie reports whether the user already has a Pending order
containing the movie.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64

Returns:
  - bool: Pending-order flag
  - error: Execution failures
*/
func (repository *orderRepository) HasPendingForMovie(context context.Context, userID string, movieID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM shop."order" o
			JOIN shop.orderitem i ON i.orderid = o.id
			WHERE o.userid = $1 AND i.movieid = $2 AND o.status = $3
		)`

	var exists bool
	err := repository.pool.QueryRow(context, query, userID, movieID, StatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to check pending orders: %w", err)
	}

	return exists, nil
}

/*
UpdateStatus moves a Pending order to the given status.

Description: The Pending guard in the WHERE clause is the store-level
backstop against racing transitions — a cancel arriving after a concurrent
payment settles matches zero rows instead of overwriting Paid.

Parameters:
  - context: context.Context
  - orderID: int64
  - status: string

Returns:
  - error: dberr.ErrConflict when the order is no longer Pending, or
    execution failures
*/
func (repository *orderRepository) UpdateStatus(context context.Context, orderID int64, status string) error {
	const query = `
		UPDATE shop."order"
		SET status = $2, updatedat = NOW()
		WHERE id = $1 AND status = $3`

	tag, err := repository.pool.Exec(context, query, orderID, status, StatusPending)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrConflict
	}

	return nil
}

/*
MarkPaid settles an order.

Description: Runs in a single transaction — the status flips to Paid, then
one shop.purchase row is recorded per item. A duplicate purchase aborts the
whole settlement.

Parameters:
  - context: context.Context
  - order: *Order (hydrated, status pre-checked by the caller)

Returns:
  - error: apperr.Conflict when any movie is already purchased, or execution failures
*/
func (repository *orderRepository) MarkPaid(context context.Context, order *Order) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin order payment: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Flip the status (Pending guard backstops racing transitions) ──
	const update = `
		UPDATE shop."order"
		SET status = $2, updatedat = NOW()
		WHERE id = $1 AND status = $3
		RETURNING updatedat`

	err = transaction.QueryRow(context, update, order.ID, StatusPaid, StatusPending).Scan(&order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dberr.ErrConflict
		}
		return dberr.Wrap(err, "postgres: failed to mark order paid")
	}

	// ── 2. Record one purchase per item ──
	const insert = `
		INSERT INTO shop.purchase (userid, movieid, purchasedat)
		VALUES ($1, $2, NOW())`

	for _, item := range order.Items {
		if _, err := transaction.Exec(context, insert, order.UserID, item.MovieID); err != nil {
			return dberr.Wrap(err, "postgres: failed to record purchase")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit order payment: %w", err)
	}

	order.Status = StatusPaid
	return nil
}

// # Scan Helpers

// scanOrders drains an order result set. When totalCount is non-nil each row
// is expected to carry a trailing COUNT(*) OVER() column.
func scanOrders(rows pgx.Rows, totalCount *int) ([]*Order, error) {
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order := &Order{}
		destinations := []any{
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		}
		if totalCount != nil {
			destinations = append(destinations, totalCount)
		}
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// attachItems hydrates Items for every order in one round trip.
func (repository *orderRepository) attachItems(context context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]int64, len(orders))
	byID := make(map[int64]*Order, len(orders))
	for index, order := range orders {
		orderIDs[index] = order.ID
		byID[order.ID] = order
		order.Items = []OrderItem{}
	}

	itemsByOrder, err := repository.loadItems(context, orderIDs)
	if err != nil {
		return err
	}
	for orderID, items := range itemsByOrder {
		byID[orderID].Items = items
	}

	return nil
}

// loadItems fetches order items for a set of order ids, grouped by order.
func (repository *orderRepository) loadItems(context context.Context, orderIDs []int64) (map[int64][]OrderItem, error) {
	const query = `
		SELECT id, orderid, movieid, priceatorder
		FROM shop.orderitem
		WHERE orderid = ANY($1)
		ORDER BY id ASC`

	rows, err := repository.pool.Query(context, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[int64][]OrderItem, len(orderIDs))
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MovieID, &item.PriceAtOrder); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	return itemsByOrder, nil
}
