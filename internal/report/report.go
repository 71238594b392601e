// Package report renders ledger data as PDF and CSV documents.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"finassist/internal/models"
)

const stampLayout = "20060102150405"

var (
	pdfNamePattern  = regexp.MustCompile(`^financial_report_[A-Za-z0-9_-]+_\d{14}(\d{3})?\.pdf$`)
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Date", "Time", "Type", "Amount", "Currency", "Category", "Description"}

// Summary is the all-time overview printed at the top of the PDF. When a
// total could not be computed, Error holds the reason instead.
type Summary struct {
	Currency string
	Since    time.Time
	Income   float64
	Expenses float64
	Net      float64
	Error    string
}

// Data is everything RenderPDF needs. Timestamps are printed in Location,
// or UTC when it is nil.
type Data struct {
	Username    string
	GeneratedAt time.Time
	Location    *time.Location
	Summary     Summary
	Recent      []models.Transaction
}

// PDFFilename builds the download name of a PDF report. The stamp carries
// milliseconds so reports generated within the same second do not collide.
func PDFFilename(username string, at time.Time) string {
	safe := unsafeNameChars.ReplaceAllString(username, "_")
	if safe == "" {
		safe = "user"
	}
	return fmt.Sprintf("financial_report_%s_%s%03d.pdf", safe, at.Format(stampLayout), at.Nanosecond()/int(time.Millisecond))
}

// CSVFilename builds the download name of a CSV export.
func CSVFilename(userID string, at time.Time) string {
	return fmt.Sprintf("financial_transactions_%s_%s.csv", unsafeNameChars.ReplaceAllString(userID, "_"), at.Format(stampLayout))
}

// ValidPDFFilename reports whether name could have been produced by
// PDFFilename. Anything else, including path separators or "..", is rejected.
func ValidPDFFilename(name string) bool {
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return pdfNamePattern.MatchString(name)
}

// RenderCSV writes transactions, one per row, under CSVHeader. Dates and
// times are written in loc, or UTC when it is nil.
func RenderCSV(transactions []models.Transaction, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range transactions {
		at := inZone(tx.OccurredAt, loc)
		row := []string{
			at.Format("2006-01-02"),
			at.Format("15:04"),
			tx.Kind.Title(),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Currency,
			tx.Category,
			tx.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF lays out a one-page letter-size report.
func RenderPDF(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(50, 50, 50)
	pdf.SetAutoPageBreak(true, 50)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, tr("Financial Report for "+data.Username), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 16, "Generated on: "+inZone(data.GeneratedAt, data.Location).Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(12)

	s := data.Summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, fmt.Sprintf("Financial Summary (%s, since %s)", s.Currency, inZone(s.Since, data.Location).Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if s.Error != "" {
		pdf.MultiCell(0, 14, tr(s.Error), "", "L", false)
	} else {
		pdf.CellFormat(0, 14, fmt.Sprintf("Total Income: %.2f %s", s.Income, s.Currency), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 14, fmt.Sprintf("Total Expenses: %.2f %s", s.Expenses, s.Currency), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 14, fmt.Sprintf("Net Balance: %.2f %s", s.Net, s.Currency), "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, "Recent Transactions", "", 1, "L", false, 0, "")

	if len(data.Recent) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 14, "No transactions recorded yet.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{90, 60, 80, 150, 132}
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range []string{"Date", "Type", "Amount", "Category", "Description"} {
			pdf.CellFormat(widths[i], 16, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, tx := range data.Recent {
			cells := []string{
				inZone(tx.OccurredAt, data.Location).Format("2006-01-02 15:04"),
				tx.Kind.Title(),
				fmt.Sprintf("%.2f %s", tx.Amount, tx.Currency),
				truncate(tx.Category, 28),
				truncate(tx.Description, 26),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], 14, tr(c), "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
