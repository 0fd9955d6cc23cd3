/*
Package shop implements the commerce layer: per-user shopping carts, the
order state machine, and the permanent purchase ledger.

# Core Rules

  - A user owns at most one cart; the cart is created lazily and holds one
    row per movie.
  - Purchases are permanent: a (user, movie) pair is never bought twice.
  - Orders snapshot item prices at creation time and move strictly
    Pending → Paid | Canceled; terminal states reject every transition.
*/
package shop

import "time"

// # Cart Domain

// Cart represents a user's single mutable shopping cart.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem is one movie in a cart, projected with its live catalogue price.
type CartItem struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	MovieName string    `json:"movie_name"`
	Price     float64   `json:"price"` // live price, NOT a snapshot
	AddedAt   time.Time `json:"added_at"`
}

// # Purchase Domain

// Purchase is a permanent ownership record for a (user, movie) pair.
type Purchase struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	MovieID     int64     `json:"movie_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// # Order Domain

// Order statuses. Paid and Canceled are terminal.
const (
	StatusPending  = "Pending"
	StatusPaid     = "Paid"
	StatusCanceled = "Canceled"
)

// OrderStatuses enumerates every valid order status.
var OrderStatuses = []string{StatusPending, StatusPaid, StatusCanceled}

// Order represents an immutable priced conversion of a cart.
type Order struct {
	ID          int64       `json:"id"`
	UserID      string      `json:"user_id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem carries the price snapshot taken when the order was created.
// PriceAtOrder is never re-derived from the catalogue.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	MovieID      int64   `json:"movie_id"`
	PriceAtOrder float64 `json:"price_at_order"`
}

// # Search Params

// Filter holds the admin order-listing filters. Status, SortBy, and
// SortOrder are validated against allow-lists before reaching the store.
type Filter struct {
	UserID    string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
	Status    string
	SortBy    string
	SortOrder string
}

// Allowed sort keys for the admin order listing.
var AllowedOrderSortKeys = []string{"created_at", "total_amount", "user_id", "status"}

// # Field Identifiers

const (
	FieldStatus    = "status"
	FieldSortBy    = "sort_by"
	FieldSortOrder = "sort_order"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldUserID    = "user_id"
	FieldMessage   = "message"
)
