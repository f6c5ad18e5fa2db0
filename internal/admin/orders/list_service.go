package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ListService implements Service over a Store, holding the normalized order
// list in memory between refreshes. All methods are safe for concurrent use;
// status updates are serialized by the service mutex, so two rapid updates to
// the same order apply in issue order.
type ListService struct {
	store  Store
	logger *zap.Logger

	mu     sync.Mutex
	orders []Order
}

// NewListService constructs a ListService. The list starts empty until the
// first Refresh.
func NewListService(store Store, logger *zap.Logger) *ListService {
	if store == nil {
		panic("orders: store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListService{store: store, logger: logger}
}

// Refresh fetches the full collection, normalizes it and replaces the
// in-memory list. On failure the previous list is kept untouched.
func (s *ListService) Refresh(ctx context.Context) error {
	snap, err := s.store.FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("orders: fetch: %w", err)
	}

	normalized := NormalizeSnapshot(snap)
	sortByCreatedDesc(normalized)

	s.mu.Lock()
	s.orders = normalized
	s.mu.Unlock()

	s.logger.Info("orders refreshed", zap.Int("count", len(normalized)))
	return nil
}

// List applies the query over the current list. The base order (descending
// createdAt, undated last) is preserved through filtering.
func (s *ListService) List(_ context.Context, query Query) (ListResult, error) {
	s.mu.Lock()
	base := append([]Order(nil), s.orders...)
	s.mu.Unlock()

	filtered := filterOrders(base, query)
	return paginate(filtered, query.Page), nil
}

// UpdateStatus writes the status change through to the store and patches the
// in-memory entry only after the store confirms. A store failure leaves the
// list exactly as it was.
func (s *ListService) UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		s.logger.Error("order status update failed",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		return Order{}, fmt.Errorf("orders: update status: %w", err)
	}

	s.orders[idx].Status = status
	return s.orders[idx], nil
}

// Snapshot returns a copy of the full normalized list.
func (s *ListService) Snapshot() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}

func sortByCreatedDesc(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
}

func filterOrders(orders []Order, query Query) []Order {
	term := strings.ToLower(strings.TrimSpace(query.Search))
	status := strings.TrimSpace(query.Status)
	filterStatus := status != "" && status != StatusFilterAll

	if term == "" && !filterStatus {
		return orders
	}

	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		if term != "" && !matchesSearch(order, term) {
			continue
		}
		if filterStatus && string(order.Status) != status {
			continue
		}
		result = append(result, order)
	}
	return result
}

func matchesSearch(order Order, term string) bool {
	return strings.Contains(strings.ToLower(order.ProductName), term) ||
		strings.Contains(strings.ToLower(order.FullName), term) ||
		strings.Contains(strings.ToLower(order.City), term)
}

func paginate(filtered []Order, page int) ListResult {
	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	// The UI disables navigation past the bounds, but clamp anyway.
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	pagination := Pagination{
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
	if total > 0 {
		pagination.From = start + 1
		pagination.To = end
	}

	return ListResult{
		Orders:     append([]Order(nil), filtered[start:end]...),
		Pagination: pagination,
	}
}
