package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/orders"
)

type ordersTableData struct {
	Orders     []orders.Order
	Pagination orders.Pagination
	Statuses   []orders.Status
	Search     string
	Status     string
	BasePath   string
	CSRFToken  string
	Error      string
}

type ordersPageData struct {
	baseData
	Search   string
	Status   string
	Statuses []orders.Status
	Table    ordersTableData
}

func queryFromRequest(r *http.Request) orders.Query {
	q := orders.Query{
		Search: r.FormValue("search"),
		Status: r.FormValue("status"),
		Page:   1,
	}
	if q.Status == "" {
		q.Status = orders.StatusFilterAll
	}
	if page, err := strconv.Atoi(r.FormValue("page")); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

func (h *handlers) tableData(r *http.Request, q orders.Query, base baseData, errMsg string) ordersTableData {
	result, err := h.orders.List(r.Context(), q)
	if err != nil {
		h.logger.Error("order listing failed", zap.Error(err))
		if errMsg == "" {
			errMsg = "Failed to load orders."
		}
	}
	return ordersTableData{
		Orders:     result.Orders,
		Pagination: result.Pagination,
		Statuses:   orders.AllStatuses,
		Search:     q.Search,
		Status:     q.Status,
		BasePath:   base.BasePath,
		CSRFToken:  base.CSRFToken,
		Error:      errMsg,
	}
}

func (h *handlers) ordersPage(w http.ResponseWriter, r *http.Request) {
	var errMsg string
	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Warn("order refresh failed, serving cached orders", zap.Error(err))
		errMsg = "Could not refresh orders from the store; showing the last known list."
	}

	q := queryFromRequest(r)
	base := h.base(r, "Orders", "orders")
	h.renderPage(w, "orders", ordersPageData{
		baseData: base,
		Search:   q.Search,
		Status:   q.Status,
		Statuses: orders.AllStatuses,
		Table:    h.tableData(r, q, base, errMsg),
	})
}

func (h *handlers) ordersTable(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	base := h.base(r, "Orders", "orders")
	h.renderFragment(w, "orders_table", h.tableData(r, q, base, ""))
}

// updateOrderStatus applies a status change and re-renders the table with
// the caller's current filters. A failed store write leaves the listing
// unchanged and surfaces the error above the table.
func (h *handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	next := orders.Status(r.FormValue("status"))

	q := orders.Query{
		Search: r.FormValue("search"),
		Status: r.FormValue("status_filter"),
		Page:   1,
	}
	if q.Status == "" {
		q.Status = orders.StatusFilterAll
	}
	if page, err := strconv.Atoi(r.FormValue("page")); err == nil && page > 0 {
		q.Page = page
	}

	var errMsg string
	if _, err := h.orders.UpdateStatus(r.Context(), orderID, next); err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			errMsg = "Unknown order status."
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, orders.ErrOrderNotFound):
			errMsg = "Order no longer exists."
			w.WriteHeader(http.StatusNotFound)
		default:
			h.logger.Error("status update failed",
				zap.String("orderID", orderID),
				zap.String("status", string(next)),
				zap.Error(err))
			errMsg = "Failed to update order status. Please try again."
			w.WriteHeader(http.StatusBadGateway)
		}
	}

	base := h.base(r, "Orders", "orders")
	h.renderFragment(w, "orders_table", h.tableData(r, q, base, errMsg))
}
