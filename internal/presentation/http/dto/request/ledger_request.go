package request

import "github.com/shopspring/decimal"

// AddIncomeRequest represents a manual income entry
type AddIncomeRequest struct {
	Month  int             `json:"month" binding:"required,min=1,max=12"`
	Year   int             `json:"year" binding:"required,gt=0"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" binding:"omitempty,max=500"`
}

// CreateDebtRequest represents a manually entered supplier debt
type CreateDebtRequest struct {
	Counterparty string          `json:"counterparty" binding:"required,max=255"`
	Reference    string          `json:"reference" binding:"omitempty,max=100"`
	Amount       decimal.Decimal `json:"amount"`
}

// PayDebtRequest represents a payment towards a debt
type PayDebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreatePlannedPaymentRequest represents a payment planned against a debt
type CreatePlannedPaymentRequest struct {
	DebtID string          `json:"debt_id" binding:"required,uuid"`
	Month  int             `json:"month" binding:"required,min=1,max=12"`
	Year   int             `json:"year" binding:"required,gt=0"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateExpectedPaymentRequest represents a manually entered receivable
type CreateExpectedPaymentRequest struct {
	Counterparty string          `json:"counterparty" binding:"required,max=255"`
	Reference    string          `json:"reference" binding:"omitempty,max=100"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentType  string          `json:"payment_type" binding:"omitempty,max=50"`
}
