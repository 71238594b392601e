package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finassist/internal/errors"
	"finassist/internal/services"
)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("", injectUserID(testUserID))
	api.GET("/reports/pdf", handler.GeneratePDF)
	api.GET("/reports/pdf/:filename", handler.DownloadPDF)
	api.GET("/reports/csv", handler.ExportCSV)
	return r
}

func TestReportHandler_GeneratePDF(t *testing.T) {
	t.Run("returns the download url", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/reports/pdf", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["download_url"] != "/reports/pdf/financial_report_default_user_20240315093005.pdf" {
			t.Errorf("unexpected download url %v", result["download_url"])
		}
		if result["filename"] != "financial_report_default_user_20240315093005.pdf" {
			t.Errorf("unexpected filename %v", result["filename"])
		}
	})

	t.Run("returns 404 for an unknown user", func(t *testing.T) {
		reports := &mockReportService{
			generatePDFFn: func(string) (*services.GeneratedReport, error) { return nil, apperrors.ErrUserNotFound },
		}
		r := setupReportRouter(NewReportHandler(reports))

		rec := doRequest(r, "GET", "/reports/pdf", "")

		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestReportHandler_DownloadPDF(t *testing.T) {
	t.Run("streams the stored file", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/reports/pdf/financial_report_default_user_20240315093005.pdf", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "financial_report_default_user_20240315093005.pdf") {
			t.Errorf("unexpected disposition %q", cd)
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("returns 404 for a missing report", func(t *testing.T) {
		reports := &mockReportService{
			openPDFFn: func(string) ([]byte, error) { return nil, apperrors.ErrReportNotFound },
		}
		r := setupReportRouter(NewReportHandler(reports))

		rec := doRequest(r, "GET", "/reports/pdf/financial_report_x_20240101000000.pdf", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REPORT_NOT_FOUND")
	})

	t.Run("does not route traversal attempts to the service", func(t *testing.T) {
		reports := &mockReportService{}
		r := setupReportRouter(NewReportHandler(reports))

		rec := doRequest(r, "GET", "/reports/pdf/../../etc/passwd", "")

		if rec.Code == http.StatusOK {
			t.Fatalf("traversal request must not succeed, got %d", rec.Code)
		}
		if reports.openCalls != 0 {
			t.Errorf("expected no store access, got %d calls", reports.openCalls)
		}
	})
}

func TestReportHandler_ExportCSV(t *testing.T) {
	t.Run("returns a csv attachment", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/reports/csv", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
			t.Errorf("unexpected disposition %q", cd)
		}
	})

	t.Run("returns 404 when there is nothing to export", func(t *testing.T) {
		reports := &mockReportService{
			generateCSVFn: func(string) (*services.GeneratedReport, error) { return nil, apperrors.ErrNoTransactions },
		}
		r := setupReportRouter(NewReportHandler(reports))

		rec := doRequest(r, "GET", "/reports/csv", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_TRANSACTIONS")
	})
}
