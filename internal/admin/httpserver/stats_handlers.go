package httpserver

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/report"
	"elamli.org/elamli-admin/internal/admin/stats"
)

type statisticsData struct {
	baseData
	Window            stats.Window
	Windows           []stats.Window
	TotalOrders       int
	TotalRevenue      float64
	AverageOrderValue float64
	CompletedOrders   int
	StatusCounts      []stats.StatusCount
	TopCities         []stats.CityCount
	ChartJSON         template.JS
}

type chartPayload struct {
	RevenueByDay []stats.DailyRevenue `json:"revenueByDay"`
	StatusCounts []stats.StatusCount  `json:"statusCounts"`
}

func (h *handlers) statisticsPage(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Warn("order refresh failed, serving cached orders", zap.Error(err))
	}

	window := stats.ParseWindow(r.URL.Query().Get("range"))
	now := h.now()
	scoped := stats.FilterSince(h.orders.Snapshot(), window.Cutoff(now))

	payload := chartPayload{
		RevenueByDay: stats.RevenueByDay(scoped),
		StatusCounts: stats.StatusDistribution(scoped),
	}
	chartJSON, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal chart data failed", zap.Error(err))
		chartJSON = []byte(`{"revenueByDay":[],"statusCounts":[]}`)
	}

	h.renderPage(w, "statistics", statisticsData{
		baseData:          h.base(r, "Statistics", "statistics"),
		Window:            window,
		Windows:           stats.AllWindows(),
		TotalOrders:       len(scoped),
		TotalRevenue:      stats.TotalRevenue(scoped),
		AverageOrderValue: stats.AverageOrderValue(scoped),
		CompletedOrders:   stats.CompletedCount(scoped),
		StatusCounts:      payload.StatusCounts,
		TopCities:         stats.TopCities(scoped, 5),
		ChartJSON:         template.JS(chartJSON),
	})
}

// statisticsReport streams the PDF export. The document is built into a
// buffer first so a generation failure never produces a truncated download.
func (h *handlers) statisticsReport(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Warn("order refresh failed, serving cached orders", zap.Error(err))
	}

	window := stats.ParseWindow(r.URL.Query().Get("range"))
	now := h.now()
	scoped := stats.FilterSince(h.orders.Snapshot(), window.Cutoff(now))

	data := report.Data{
		RangeLabel:        window.Label(),
		GeneratedAt:       now,
		TotalOrders:       len(scoped),
		TotalRevenue:      stats.TotalRevenue(scoped),
		AverageOrderValue: stats.AverageOrderValue(scoped),
		CompletedOrders:   stats.CompletedCount(scoped),
		StatusCounts:      stats.StatusDistribution(scoped),
		TopCities:         stats.TopCities(scoped, 5),
	}

	var buf bytes.Buffer
	if err := report.Build(&buf, data); err != nil {
		h.logger.Error("report generation failed", zap.Error(err))
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(now)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
