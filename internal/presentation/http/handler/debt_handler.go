package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// DebtHandler handles supplier debts and planned payments
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// List handles listing debts; ?open=true hides settled ones
func (h *DebtHandler) List(c *gin.Context) {
	openOnly, _ := strconv.ParseBool(c.DefaultQuery("open", "false"))

	debts, err := h.debtService.ListDebts(c.Request.Context(), openOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debts retrieved successfully", debts)
}

// Create handles recording a debt by hand
func (h *DebtHandler) Create(c *gin.Context) {
	var req request.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), &service.CreateDebtInput{
		Counterparty: req.Counterparty,
		Reference:    req.Reference,
		Amount:       req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Debt recorded successfully", debt)
}

// Pay handles paying towards a debt
func (h *DebtHandler) Pay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.PayDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	debt, err := h.debtService.PayDebt(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debt payment recorded successfully", debt)
}

// UndoPayment handles restoring a debt to its original amount
func (h *DebtHandler) UndoPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	debt, err := h.debtService.UndoDebtPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debt payment undone successfully", debt)
}

// ListPlanned handles listing planned payments, optionally for ?year=
func (h *DebtHandler) ListPlanned(c *gin.Context) {
	var year *int
	if c.Query("year") != "" {
		y, ok := queryYear(c)
		if !ok {
			return
		}
		year = &y
	}

	payments, err := h.debtService.ListPlannedPayments(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Planned payments retrieved successfully", payments)
}

// CreatePlanned handles planning a debt payment for a month
func (h *DebtHandler) CreatePlanned(c *gin.Context) {
	var req request.CreatePlannedPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	debtID, err := uuid.Parse(req.DebtID)
	if err != nil {
		response.BadRequest(c, "Invalid debt_id")
		return
	}

	payment, err := h.debtService.CreatePlannedPayment(c.Request.Context(), &service.CreatePlannedPaymentInput{
		DebtID: debtID,
		Month:  req.Month,
		Year:   req.Year,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Planned payment created successfully", payment)
}

// ConfirmPlanned handles confirming a planned payment
func (h *DebtHandler) ConfirmPlanned(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.debtService.ConfirmPlannedPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Planned payment confirmed successfully", payment)
}

// DeletePlanned handles removing an unconfirmed planned payment
func (h *DebtHandler) DeletePlanned(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.debtService.DeletePlannedPayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Planned payment deleted successfully", nil)
}
