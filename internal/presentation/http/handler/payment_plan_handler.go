package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// PaymentPlanHandler handles payment plan requests
type PaymentPlanHandler struct {
	planService *service.PaymentPlanService
}

// NewPaymentPlanHandler creates a new payment plan handler
func NewPaymentPlanHandler(planService *service.PaymentPlanService) *PaymentPlanHandler {
	return &PaymentPlanHandler{planService: planService}
}

// List handles listing payment plans, optionally by ?status=active|completed|cancelled
func (h *PaymentPlanHandler) List(c *gin.Context) {
	var status *enum.PlanStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := enum.ParsePlanStatus(raw)
		if !ok {
			response.BadRequest(c, "Invalid status")
			return
		}
		status = &parsed
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment plans retrieved successfully", plans)
}

// Get handles getting a single payment plan
func (h *PaymentPlanHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment plan retrieved successfully", plan)
}

// Create handles creating a payment plan without a sale
func (h *PaymentPlanHandler) Create(c *gin.Context) {
	var req request.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), &service.CreatePlanInput{
		Counterparty:      req.Counterparty,
		Total:             req.Total,
		Upfront:           req.Upfront,
		InstallmentAmount: req.InstallmentAmount,
		InstallmentCount:  req.InstallmentCount,
		StartMonth:        req.StartMonth,
		StartYear:         req.StartYear,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment plan created successfully", plan)
}

// PayInstallment handles paying a single installment in full
func (h *PaymentPlanHandler) PayInstallment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.planService.PayInstallment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment paid successfully", result)
}

// Cancel handles cancelling an active plan
func (h *PaymentPlanHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.CancelPlan(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment plan cancelled successfully", plan)
}
