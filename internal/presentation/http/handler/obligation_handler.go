package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// ObligationHandler handles the expected-payment views
type ObligationHandler struct {
	obligationService *service.ObligationService
}

// NewObligationHandler creates a new obligation handler
func NewObligationHandler(obligationService *service.ObligationService) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService}
}

// ListExpected handles listing what customers still owe in cash
func (h *ObligationHandler) ListExpected(c *gin.Context) {
	rows, err := h.obligationService.ListExpectedPayments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expected payments retrieved successfully", rows)
}

// ListOverdue handles listing manual records with no recent payment
func (h *ObligationHandler) ListOverdue(c *gin.Context) {
	rows, err := h.obligationService.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue payments retrieved successfully", rows)
}

// CreateExpected handles recording a receivable without a plan
func (h *ObligationHandler) CreateExpected(c *gin.Context) {
	var req request.CreateExpectedPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.obligationService.CreateExpectedPayment(c.Request.Context(), &service.CreateExpectedPaymentInput{
		Counterparty: req.Counterparty,
		Reference:    req.Reference,
		Amount:       req.Amount,
		PaymentType:  enum.PaymentType(req.PaymentType),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expected payment recorded successfully", rec)
}
