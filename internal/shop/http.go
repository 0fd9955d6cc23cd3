// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP interface for the shop domain.

# Access Control

  - Authenticated: Everything — carts, orders, and the purchase library are
    strictly per-user surfaces.
  - Moderator: The cross-user admin order listing.
*/
package shop

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinevault/internal/platform/request"
	"github.com/taibuivan/cinevault/internal/platform/respond"
	"github.com/taibuivan/cinevault/internal/platform/sec"
	"github.com/taibuivan/cinevault/pkg/pagination"
)

// dateLayout is the wire format for the admin date filters.
const dateLayout = "2006-01-02"

// Handler implements the HTTP layer for carts, orders, and purchases.
type Handler struct {
	carts  *CartService
	orders *OrderService
}

// NewHandler constructs a new shop [Handler].
func NewHandler(carts *CartService, orders *OrderService) *Handler {
	return &Handler{carts: carts, orders: orders}
}

// CartRoutes returns a [chi.Router] for the /cart subtree.
func (handler *Handler) CartRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getCart)
	router.Delete("/", handler.clearCart)
	router.Post("/items/{movieID}", handler.addItem)
	router.Delete("/items/{movieID}", handler.removeItem)
	router.Post("/pay", handler.payCart)

	return router
}

// OrderRoutes returns a [chi.Router] for the /orders subtree.
func (handler *Handler) OrderRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.createOrder)
	router.Get("/", handler.listOrders)
	router.Patch("/{orderID}/cancel", handler.cancelOrder)
	router.Patch("/{orderID}/pay", handler.payOrder)

	return router
}

// PurchaseRoutes returns a [chi.Router] for the /purchases library listing.
func (handler *Handler) PurchaseRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listPurchases)

	return router
}

// AdminOrderRoutes returns a [chi.Router] for the /admin/orders listing.
func (handler *Handler) AdminOrderRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth, middleware.RequireRole(sec.RoleModerator))

	router.Get("/", handler.listAllOrders)

	return router
}

// # Cart Handlers

/*
GetCart returns the caller's cart, creating an empty one on first access.

GET /api/v1/cart  (bearer)

Response:
  - 200: Cart: The singleton cart with items
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) getCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.carts.GetOrCreate(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cart)
}

/*
AddItem puts a movie into the caller's cart.

POST /api/v1/cart/items/{movieID}  (bearer)

Response:
  - 200: message: Added, or already-in-cart no-op
  - 400: ErrBadRequest: Movie already purchased
  - 404: ErrNotFound: Movie not found
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := parseID(request, "movieID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	added, err := handler.carts.AddItem(request.Context(), userID, movieID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Movie successfully added to cart."
	if !added {
		message = "Movie is already in the cart."
	}
	respond.OK(writer, map[string]string{FieldMessage: message})
}

/*
RemoveItem takes one movie out of the caller's cart.

DELETE /api/v1/cart/items/{movieID}  (bearer)

Response:
  - 200: message: Removed
  - 404: ErrNotFound: No cart, or movie not in it
*/
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := parseID(request, "movieID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.carts.RemoveItem(request.Context(), userID, movieID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Movie removed from cart.",
	})
}

/*
ClearCart empties the caller's cart.

DELETE /api/v1/cart  (bearer)

Response:
  - 200: message: Cleared (also for an already-empty cart)
  - 404: ErrNotFound: No cart
*/
func (handler *Handler) clearCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.carts.Clear(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "All movies removed from cart.",
	})
}

/*
PayCart checks the cart out directly into the purchase library.

POST /api/v1/cart/pay  (bearer)

Response:
  - 200: message: Paid
  - 400: ErrBadRequest: Cart missing or empty
  - 409: ErrConflict: A movie already purchased
*/
func (handler *Handler) payCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.carts.Pay(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Cart payed successfully.",
	})
}

// # Order Handlers

/*
CreateOrder converts the caller's cart into a Pending order.

POST /api/v1/orders  (bearer)

Response:
  - 201: Order: Pending order with price snapshots
  - 404: ErrNotFound: Cart not found or is empty
  - 409: ErrConflict: A movie purchased or already pending
*/
func (handler *Handler) createOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orders.Create(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

/*
ListOrders returns all of the caller's orders with items.

GET /api/v1/orders  (bearer)

Response:
  - 200: []Order: Most recent first
  - 404: ErrNotFound: No orders found
*/
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.orders.ListMine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, orders)
}

/*
CancelOrder moves a Pending order of the caller to Canceled.

PATCH /api/v1/orders/{orderID}/cancel  (bearer)

Response:
  - 200: Order: The canceled order
  - 404: ErrNotFound: Order absent or owned by someone else
  - 409: ErrConflict: Order not Pending
*/
func (handler *Handler) cancelOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID, err := parseID(request, "orderID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orders.Cancel(request.Context(), orderID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
PayOrder settles a Pending order of the caller.

PATCH /api/v1/orders/{orderID}/pay  (bearer)

Response:
  - 200: Order: The paid order
  - 404: ErrNotFound: Order absent or owned by someone else
  - 409: ErrConflict: Order not Pending, or a movie already purchased
*/
func (handler *Handler) payOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID, err := parseID(request, "orderID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orders.Pay(request.Context(), orderID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
ListPurchases returns the caller's purchase library.

GET /api/v1/purchases  (bearer)

Response:
  - 200: []Purchase: Most recent first; empty library is an empty list
*/
func (handler *Handler) listPurchases(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	purchases, err := handler.orders.ListPurchases(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, purchases)
}

// # Admin Handlers

/*
ListAllOrders returns one filtered, sorted page across every user's orders.

GET /api/v1/admin/orders?user_id&start_date&end_date&status&sort_by&sort_order&page&limit  (moderator+)

Response:
  - 200: []Order: Paginated page
  - 400: ErrBadRequest: Invalid filter, date, or sort parameter
  - 403: ErrForbidden: Insufficient role
  - 404: ErrNotFound: No orders found matching the criteria
*/
func (handler *Handler) listAllOrders(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	queryValues := request.URL.Query()

	filter := Filter{
		UserID:    queryValues.Get(FieldUserID),
		Status:    queryValues.Get(FieldStatus),
		SortBy:    queryValues.Get(FieldSortBy),
		SortOrder: queryValues.Get(FieldSortOrder),
	}

	if raw := queryValues.Get(FieldStartDate); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest(fmt.Sprintf("Invalid start_date: '%s'", raw)))
			return
		}
		filter.StartDate = &start
	}

	if raw := queryValues.Get(FieldEndDate); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest(fmt.Sprintf("Invalid end_date: '%s'", raw)))
			return
		}
		// Inclusive upper bound: cover the whole end day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	orders, total, err := handler.orders.ListAll(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}

// parseID extracts a positive integer URL parameter.
func parseID(request *http.Request, name string) (int64, error) {
	raw := requestutil.Param(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid %s: '%s'", name, raw))
	}
	return id, nil
}
