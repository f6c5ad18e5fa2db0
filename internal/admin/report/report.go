// Package report renders the downloadable statistics report as a PDF.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"elamli.org/elamli-admin/internal/admin/stats"
)

// Data carries the aggregates printed in the report, already scoped to the
// active time window.
type Data struct {
	RangeLabel        string
	GeneratedAt       time.Time
	TotalOrders       int
	TotalRevenue      float64
	AverageOrderValue float64
	CompletedOrders   int
	StatusCounts      []stats.StatusCount
	TopCities         []stats.CityCount
}

// Filename returns the report file name for the given generation date.
func Filename(t time.Time) string {
	return fmt.Sprintf("Statistics_Report_%s.pdf", t.Format("2006-01-02"))
}

// Build writes the report document to w. Any rendering failure is returned
// to the caller; nothing is persisted on error.
func Build(w io.Writer, data Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Statistics Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "ELAMLI Statistics Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, data.RangeLabel, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeSectionTitle(pdf, "General Statistics")
	writeTable(pdf, [][2]string{
		{"Total Orders", strconv.Itoa(data.TotalOrders)},
		{"Total Revenue", fmt.Sprintf("$%.2f", data.TotalRevenue)},
		{"Average Order Value", fmt.Sprintf("$%.2f", data.AverageOrderValue)},
		{"Completed Orders", strconv.Itoa(data.CompletedOrders)},
	})

	writeSectionTitle(pdf, "Order Status Distribution")
	statusRows := make([][2]string, 0, len(data.StatusCounts))
	for _, entry := range data.StatusCounts {
		statusRows = append(statusRows, [2]string{entry.Label, strconv.Itoa(entry.Count)})
	}
	writeTable(pdf, statusRows)

	writeSectionTitle(pdf, "Top Cities by Orders")
	cityRows := make([][2]string, 0, len(data.TopCities))
	for _, entry := range data.TopCities {
		cityRows = append(cityRows, [2]string{entry.City, strconv.Itoa(entry.Count)})
	}
	if len(cityRows) == 0 {
		cityRows = append(cityRows, [2]string{"No orders in range", "0"})
	}
	writeTable(pdf, cityRows)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: render pdf: %w", err)
	}
	return nil
}

func writeSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeTable(pdf *gofpdf.Fpdf, rows [][2]string) {
	const labelWidth, valueWidth = 120.0, 70.0

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(243, 244, 246)
	fill := false
	for _, row := range rows {
		pdf.CellFormat(labelWidth, 8, row[0], "1", 0, "L", fill, 0, "")
		pdf.CellFormat(valueWidth, 8, row[1], "1", 1, "R", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(5)
}
