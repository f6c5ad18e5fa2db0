package orders

import (
	"context"
	"errors"
)

// PageSize is the fixed number of orders shown per page.
const PageSize = 10

// StatusFilterAll is the sentinel that bypasses status filtering.
const StatusFilterAll = "all"

var (
	// ErrOrderNotFound is returned when an order id is not present in the list.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned when a status value is not one of the five known states.
	ErrInvalidStatus = errors.New("invalid order status")
)

// Service exposes order browsing and status mutation for the admin UI.
type Service interface {
	// Refresh rebuilds the in-memory list from the store. Callers invoke it
	// once at startup and may re-invoke it at any time.
	Refresh(ctx context.Context) error

	// List applies the query's search term, status filter and pagination over
	// the normalized list.
	List(ctx context.Context, query Query) (ListResult, error)

	// UpdateStatus writes the new status through to the store and, only on
	// success, patches the in-memory copy. The updated order is returned.
	UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error)

	// Snapshot returns a copy of the full normalized list for aggregation.
	Snapshot() []Order
}

// Query captures filter and pagination arguments for listing orders.
type Query struct {
	// Search is matched case-insensitively as a substring of the product
	// name, customer name and city. Empty matches everything.
	Search string
	// Status filters on an exact status value; empty or "all" bypasses.
	Status string
	// Page is 1-based and clamped into the valid range.
	Page int
}

// ListResult is one page of filtered orders plus pagination metadata.
type ListResult struct {
	Orders     []Order
	Pagination Pagination
}

// Pagination describes the position of the returned page.
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	// From and To are 1-based item indexes of the page bounds, 0 when empty.
	From int
	To   int
}

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Store abstracts the realtime database holding the order collection.
type Store interface {
	// FetchOrders reads the full collection. "No data" is an empty snapshot,
	// not an error.
	FetchOrders(ctx context.Context) (Snapshot, error)
	// UpdateOrderStatus mutates the status field of a single order.
	UpdateOrderStatus(ctx context.Context, orderID string, status Status) error
}
