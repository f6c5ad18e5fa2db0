package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	snapshot  Snapshot
	fetchErr  error
	updateErr error
	updates   []string
}

func (s *fakeStore) FetchOrders(context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append(Snapshot(nil), s.snapshot...), nil
}

func (s *fakeStore) UpdateOrderStatus(_ context.Context, orderID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, orderID+":"+string(status))
	return nil
}

func seededService(t *testing.T, snap Snapshot) (*ListService, *fakeStore) {
	t.Helper()

	store := &fakeStore{snapshot: snap}
	svc := NewListService(store, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	return svc, store
}

func entry(id, product, customer, city string, status Status, price float64, createdAt int64) Entry {
	return Entry{ID: id, Record: Record{
		ProductName:  product,
		FullName:     customer,
		City:         city,
		Status:       string(status),
		ProductPrice: Price(price),
		CreatedAt:    createdAt,
	}}
}

func TestRefreshSortsByCreatedDesc(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
		entry("b", "Shoes", "Yassin", "Fes", StatusPending, 20, 300),
		entry("c", "Belt", "Sara", "Oujda", StatusPending, 30, 200),
		entry("d", "Hat", "Omar", "Safi", StatusPending, 40, 0),
	})

	list := svc.Snapshot()
	require.Equal(t, []string{"b", "c", "a", "d"}, ids(list))
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	t.Parallel()

	svc, store := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
	})

	store.fetchErr = errors.New("permission denied")
	require.Error(t, svc.Refresh(context.Background()))
	require.Equal(t, []string{"a"}, ids(svc.Snapshot()))
}

func TestListSearchMatchesProductCustomerAndCity(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, Snapshot{
		entry("a", "Leather Bag", "Amina K", "Casablanca", StatusPending, 10, 300),
		entry("b", "Sneakers", "Yassin B", "Rabat", StatusPending, 20, 200),
		entry("c", "Casual Shirt", "Sara L", "Fes", StatusPending, 30, 100),
	})

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"product substring", "leather", []string{"a"}},
		{"customer substring", "yassin", []string{"b"}},
		{"city substring", "fes", []string{"c"}},
		{"case insensitive across fields", "CAS", []string{"a", "c"}},
		{"no match", "zzz", nil},
		{"whitespace only matches everything", "   ", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := svc.List(context.Background(), Query{Search: tt.search, Page: 1})
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(result.Orders))
		})
	}
}

func TestListStatusFilter(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 300),
		entry("b", "Shoes", "Yassin", "Fes", StatusShipped, 20, 200),
		entry("c", "Belt", "Sara", "Oujda", StatusShipped, 30, 100),
	})

	result, err := svc.List(context.Background(), Query{Status: "shipped", Page: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, ids(result.Orders))

	all, err := svc.List(context.Background(), Query{Status: StatusFilterAll, Page: 1})
	require.NoError(t, err)
	require.Len(t, all.Orders, 3)

	empty, err := svc.List(context.Background(), Query{Status: "", Page: 1})
	require.NoError(t, err)
	require.Len(t, empty.Orders, 3)
}

func TestListCombinesSearchAndStatus(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Casablanca", StatusShipped, 10, 300),
		entry("b", "Bag", "Yassin", "Rabat", StatusPending, 20, 200),
		entry("c", "Shoes", "Sara", "Casablanca", StatusShipped, 30, 100),
	})

	result, err := svc.List(context.Background(), Query{Search: "bag", Status: "shipped", Page: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(result.Orders))
}

func TestListPagination(t *testing.T) {
	t.Parallel()

	snap := make(Snapshot, 0, 23)
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("o%02d", i)
		snap = append(snap, entry(id, "Bag", "Amina", "Rabat", StatusPending, 10, int64(1000-i)))
	}
	svc, _ := seededService(t, snap)

	page1, err := svc.List(context.Background(), Query{Page: 1})
	require.NoError(t, err)
	require.Len(t, page1.Orders, 10)
	require.Equal(t, 23, page1.Pagination.TotalItems)
	require.Equal(t, 3, page1.Pagination.TotalPages)
	require.Equal(t, 1, page1.Pagination.From)
	require.Equal(t, 10, page1.Pagination.To)
	require.False(t, page1.Pagination.HasPrev())
	require.True(t, page1.Pagination.HasNext())

	page3, err := svc.List(context.Background(), Query{Page: 3})
	require.NoError(t, err)
	require.Len(t, page3.Orders, 3)
	require.Equal(t, 21, page3.Pagination.From)
	require.Equal(t, 23, page3.Pagination.To)
	require.False(t, page3.Pagination.HasNext())

	clampedHigh, err := svc.List(context.Background(), Query{Page: 99})
	require.NoError(t, err)
	require.Equal(t, 3, clampedHigh.Pagination.Page)

	clampedLow, err := svc.List(context.Background(), Query{Page: 0})
	require.NoError(t, err)
	require.Equal(t, 1, clampedLow.Pagination.Page)
}

func TestListEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, nil)

	result, err := svc.List(context.Background(), Query{Page: 1})
	require.NoError(t, err)
	require.Empty(t, result.Orders)
	require.Zero(t, result.Pagination.TotalItems)
	require.Zero(t, result.Pagination.From)
	require.Zero(t, result.Pagination.To)
}

func TestUpdateStatusPatchesListAfterStoreWrite(t *testing.T) {
	t.Parallel()

	svc, store := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
	})

	updated, err := svc.UpdateStatus(context.Background(), "a", StatusShipped)
	require.NoError(t, err)
	require.Equal(t, StatusShipped, updated.Status)
	require.Equal(t, []string{"a:shipped"}, store.updates)
	require.Equal(t, StatusShipped, svc.Snapshot()[0].Status)
}

func TestUpdateStatusStoreFailureLeavesListUntouched(t *testing.T) {
	t.Parallel()

	svc, store := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
	})
	store.updateErr = errors.New("write denied")

	_, err := svc.UpdateStatus(context.Background(), "a", StatusShipped)
	require.Error(t, err)
	require.Equal(t, StatusPending, svc.Snapshot()[0].Status)
}

func TestUpdateStatusRetryAfterStoreFailure(t *testing.T) {
	t.Parallel()

	svc, store := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
	})

	store.updateErr = errors.New("write denied")
	_, err := svc.UpdateStatus(context.Background(), "a", StatusShipped)
	require.Error(t, err)
	require.Equal(t, StatusPending, svc.Snapshot()[0].Status)

	store.updateErr = nil
	updated, err := svc.UpdateStatus(context.Background(), "a", StatusShipped)
	require.NoError(t, err)
	require.Equal(t, StatusShipped, updated.Status)
	require.Equal(t, StatusShipped, svc.Snapshot()[0].Status)
	require.Equal(t, []string{"a:shipped"}, store.updates)
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t, Snapshot{
		entry("a", "Bag", "Amina", "Rabat", StatusPending, 10, 100),
	})

	_, err := svc.UpdateStatus(context.Background(), "a", "refunded")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), "missing", StatusShipped)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func ids(list []Order) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}
