package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"finassist/internal/services"
)

// ReportHandler serves generated PDF and CSV reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GeneratePDFResponse points at a freshly generated report.
type GeneratePDFResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
}

// GeneratePDF renders and stores a PDF report
// @Summary     Generate PDF report
// @Description Renders an all-time summary with the latest transactions and stores it for download
// @Tags        reports
// @Produce     json
// @Success     200 {object} GeneratePDFResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/pdf [get]
func (h *ReportHandler) GeneratePDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	generated, err := h.reportService.GeneratePDF(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, GeneratePDFResponse{
		Message:     "PDF report generated successfully",
		Filename:    generated.Filename,
		DownloadURL: "/reports/pdf/" + generated.Filename,
	})
}

// DownloadPDF streams a stored report
// @Summary     Download PDF report
// @Tags        reports
// @Produce     application/pdf
// @Param       filename path string true "Report filename"
// @Success     200 {file} binary
// @Failure     404 {object} ErrorResponse "Report not found"
// @Router      /reports/pdf/{filename} [get]
func (h *ReportHandler) DownloadPDF(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.reportService.OpenPDF(c.Request.Context(), filename)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportCSV downloads every transaction as CSV
// @Summary     Export transactions as CSV
// @Tags        reports
// @Produce     text/csv
// @Success     200 {file} binary
// @Failure     404 {object} ErrorResponse "No transactions to export"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	generated, err := h.reportService.GenerateCSV(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", generated.Filename))
	c.Data(http.StatusOK, generated.ContentType, generated.Data)
}
