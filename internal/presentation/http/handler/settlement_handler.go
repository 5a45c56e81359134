package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// SettlementHandler handles sales, purchases and installment payments
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// CreateSale handles recording a sale
func (h *SettlementHandler) CreateSale(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.settlementService.ApplySale(c.Request.Context(), &service.SaleInput{
		ProductCode:            req.ProductCode,
		Quantity:               req.Quantity,
		UnitPrice:              req.UnitPrice,
		Counterparty:           req.Counterparty,
		PaymentType:            enum.PaymentType(req.PaymentType),
		Upfront:                req.Upfront,
		InstallmentAmount:      req.InstallmentAmount,
		InstallmentCount:       req.InstallmentCount,
		SellerName:             req.SellerName,
		Buyer:                  req.Buyer,
		IsMailOrder:            req.IsMailOrder,
		UpfrontPaymentType:     enum.PaymentType(req.UpfrontPaymentType),
		InstallmentPaymentType: enum.PaymentType(req.InstallmentPaymentType),
		Reference:              req.Reference,
		Note:                   req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", result)
}

// CreatePurchase handles recording a stock purchase
func (h *SettlementHandler) CreatePurchase(c *gin.Context) {
	var req request.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.settlementService.ApplyPurchase(c.Request.Context(), &service.PurchaseInput{
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Buyer:       req.Buyer,
		Supplier:    req.Supplier,
		Upfront:     req.Upfront,
		DebtAmount:  req.DebtAmount,
		Reference:   req.Reference,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase recorded successfully", result)
}

// PayInstallment handles paying the next installment of a sale
func (h *SettlementHandler) PayInstallment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.settlementService.PayInstallmentForTransaction(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment paid successfully", result)
}

// UndoPayment handles reverting the last paid installment of a sale
func (h *SettlementHandler) UndoPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.settlementService.UndoPaymentForTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment payment undone successfully", result)
}

// DeleteTransaction handles deleting a transaction and reversing its effects
func (h *SettlementHandler) DeleteTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.settlementService.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}
