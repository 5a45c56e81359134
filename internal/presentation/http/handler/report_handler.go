package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles yearly summaries and exports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary handles the financial summary of ?year=
func (h *ReportHandler) Summary(c *gin.Context) {
	year, ok := queryYear(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}

// Export handles downloading the cash flow of ?year= as XLSX
func (h *ReportHandler) Export(c *gin.Context) {
	year, ok := queryYear(c)
	if !ok {
		return
	}

	// Buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.reportService.ExportLedger(c.Request.Context(), year, &buf); err != nil {
		response.Error(c, err)
		return
	}

	fileName := fmt.Sprintf("cash_flow_%d.xlsx", year)
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
