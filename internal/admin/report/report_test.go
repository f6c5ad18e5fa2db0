package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"elamli.org/elamli-admin/internal/admin/stats"
)

func TestFilename(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "Statistics_Report_2025-06-01.pdf", Filename(ts))
}

func TestBuildProducesPDF(t *testing.T) {
	t.Parallel()

	data := Data{
		RangeLabel:        "Last 30 Days",
		GeneratedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		TotalOrders:       12,
		TotalRevenue:      1399.5,
		AverageOrderValue: 116.62,
		CompletedOrders:   7,
		StatusCounts: []stats.StatusCount{
			{Status: "pending", Label: "Pending", Count: 3},
			{Status: "delivered", Label: "Delivered", Count: 7},
		},
		TopCities: []stats.CityCount{
			{City: "Casablanca", Count: 6},
			{City: "Rabat", Count: 4},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Build(&buf, data))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	require.Greater(t, buf.Len(), 500)
}

func TestBuildEmptyRange(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Build(&buf, Data{RangeLabel: "Last 7 Days", GeneratedAt: time.Now()}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
