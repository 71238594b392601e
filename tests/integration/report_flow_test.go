package integration

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"finassist/internal/assistant"
)

func TestReportFlow_GenerateAndDownloadPDF(t *testing.T) {
	app := setupApp(t)
	app.addTransaction(t, `{"amount":100,"currency":"USD","kind":"income","category":"Salary","description":"Pay"}`)

	rec := app.request("GET", "/reports/pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	url := result["download_url"].(string)
	if !strings.HasPrefix(url, "/reports/pdf/financial_report_default_user_") {
		t.Fatalf("unexpected download url %q", url)
	}

	rec = app.request("GET", url, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on download, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Errorf("expected a PDF body")
	}
}

func TestReportFlow_PDFFromChatTool(t *testing.T) {
	app := setupApp(t)
	app.Model.script(callTool(assistant.ToolPDFReport, map[string]any{}), reply("Your report is ready."))

	rec := app.request("POST", "/chat", `{"message":"make me a pdf report"}`)
	if got := parseJSON(t, rec)["response"]; got != "Your report is ready." {
		t.Fatalf("unexpected response %v", got)
	}

	app.Model.mu.Lock()
	last := app.Model.requests[len(app.Model.requests)-1]
	app.Model.mu.Unlock()
	results := last.Turns[len(last.Turns)-1].Parts
	if len(results) != 1 || results[0].Result == nil {
		t.Fatalf("expected the tool result to be fed back, got %+v", results)
	}
	url, _ := results[0].Result.Response["download_url"].(string)
	if rec := app.request("GET", url, ""); rec.Code != http.StatusOK {
		t.Errorf("expected the generated report to be downloadable, got %d", rec.Code)
	}
}

func TestReportFlow_DownloadRejectsBadNames(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{
		"/reports/pdf/notes.txt",
		"/reports/pdf/financial_report_x.pdf",
		"/reports/pdf/..%2F..%2Fgo.mod",
		"/reports/pdf/financial_report_default_user_20990101000000.pdf",
	} {
		rec := app.request("GET", path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestReportFlow_CSVExport(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/reports/csv", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an empty ledger, got %d", rec.Code)
	}

	app.addTransaction(t, `{"amount":12.5,"currency":"USD","kind":"expense","category":"Food","description":"Lunch, with tip","date":"2024-03-15","time":"12:30"}`)

	rec = app.request("GET", "/reports/csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][0] != "2024-03-15" || rows[1][6] != "Lunch, with tip" {
		t.Errorf("unexpected rows %v", rows)
	}
}
