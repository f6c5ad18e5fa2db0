// Package stats computes derived metrics over an order list. Everything here
// is a pure function recomputed per request; nothing is cached.
package stats

import (
	"sort"
	"time"

	"elamli.org/elamli-admin/internal/admin/orders"
)

// UnknownCity is the grouping key used for orders without a city.
const UnknownCity = "Unknown"

// dayLabelLayout formats a timestamp as the calendar-day grouping key.
const dayLabelLayout = "Jan 02"

// Overview aggregates the headline dashboard metrics.
type Overview struct {
	TotalOrders     int
	PendingOrders   int
	CompletedOrders int
	TotalRevenue    float64
	RecentOrders    []orders.Order
}

// BuildOverview computes the dashboard overview for the given list, with the
// n most recent orders attached.
func BuildOverview(list []orders.Order, n int) Overview {
	overview := Overview{TotalOrders: len(list)}
	for _, order := range list {
		switch order.Status {
		case orders.StatusPending, orders.StatusProcessing:
			overview.PendingOrders++
		case orders.StatusDelivered:
			overview.CompletedOrders++
		}
		overview.TotalRevenue += order.ProductPrice
	}
	overview.RecentOrders = RecentOrders(list, n)
	return overview
}

// TotalRevenue sums the coerced product price over the list. Prices that
// failed numeric coercion were normalized to 0 and contribute nothing.
func TotalRevenue(list []orders.Order) float64 {
	var sum float64
	for _, order := range list {
		sum += order.ProductPrice
	}
	return sum
}

// AverageOrderValue is total revenue divided by order count, 0 for an empty
// list.
func AverageOrderValue(list []orders.Order) float64 {
	if len(list) == 0 {
		return 0
	}
	return TotalRevenue(list) / float64(len(list))
}

// CompletedCount counts delivered orders.
func CompletedCount(list []orders.Order) int {
	var n int
	for _, order := range list {
		if order.Status == orders.StatusDelivered {
			n++
		}
	}
	return n
}

// RecentOrders returns the n orders with the largest createdAt, descending,
// ties broken by input order. The input slice is not mutated.
func RecentOrders(list []orders.Order, n int) []orders.Order {
	sorted := append([]orders.Order(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// DailyRevenue is the revenue accumulated under one calendar-day label.
type DailyRevenue struct {
	Label   string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// RevenueByDay groups orders by the formatted day label of their createdAt
// and sums prices per group. Orders whose labels collide merge into one
// bucket; buckets appear in first-encountered order, not chronologically.
func RevenueByDay(list []orders.Order) []DailyRevenue {
	index := make(map[string]int, len(list))
	result := make([]DailyRevenue, 0, len(list))
	for _, order := range list {
		label := time.UnixMilli(order.CreatedAt).UTC().Format(dayLabelLayout)
		i, ok := index[label]
		if !ok {
			i = len(result)
			index[label] = i
			result = append(result, DailyRevenue{Label: label})
		}
		result[i].Revenue += order.ProductPrice
	}
	return result
}

// StatusCount is the tally for one status value.
type StatusCount struct {
	Status orders.Status `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
}

// StatusDistribution tallies orders over the five statuses in canonical
// order, zero-filled for statuses with no orders.
func StatusDistribution(list []orders.Order) []StatusCount {
	counts := make(map[orders.Status]int, len(orders.AllStatuses))
	for _, order := range list {
		counts[order.Status]++
	}
	result := make([]StatusCount, 0, len(orders.AllStatuses))
	for _, status := range orders.AllStatuses {
		result = append(result, StatusCount{
			Status: status,
			Label:  orders.StatusLabel(status),
			Count:  counts[status],
		})
	}
	return result
}

// CityCount is the order count for one city.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// TopCities groups orders by city (missing city becomes UnknownCity), counts
// them and returns the top n sorted descending by count. Ties keep the
// first-encounter order. City keys are deliberately not trimmed or
// case-folded; the store's values are taken verbatim.
func TopCities(list []orders.Order, n int) []CityCount {
	index := make(map[string]int, len(list))
	counts := make([]CityCount, 0, len(list))
	for _, order := range list {
		city := order.City
		if city == "" {
			city = UnknownCity
		}
		i, ok := index[city]
		if !ok {
			i = len(counts)
			index[city] = i
			counts = append(counts, CityCount{City: city})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n < 0 {
		n = 0
	}
	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n]
}

// FilterSince keeps orders with createdAt >= cutoff (epoch milliseconds).
// Undated orders carry createdAt 0 and drop out of any positive window.
func FilterSince(list []orders.Order, cutoff int64) []orders.Order {
	result := make([]orders.Order, 0, len(list))
	for _, order := range list {
		if order.CreatedAt >= cutoff {
			result = append(result, order)
		}
	}
	return result
}
