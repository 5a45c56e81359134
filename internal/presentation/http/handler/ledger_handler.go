package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles the monthly cash-flow table
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// GetYear handles reading the cash flow of ?year=
func (h *LedgerHandler) GetYear(c *gin.Context) {
	year, ok := queryYear(c)
	if !ok {
		return
	}

	view, err := h.ledgerService.ReadYear(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash flow retrieved successfully", view)
}

// AddIncome handles adding income that did not come from a sale
func (h *LedgerHandler) AddIncome(c *gin.Context) {
	var req request.AddIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	month, err := h.ledgerService.AddIncome(c.Request.Context(), &service.AddIncomeInput{
		Month:  req.Month,
		Year:   req.Year,
		Amount: req.Amount,
		Note:   req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Income added successfully", month)
}
