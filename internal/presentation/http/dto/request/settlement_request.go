package request

import "github.com/shopspring/decimal"

// CreateSaleRequest represents a sale. Upfront and installment amount may
// both be omitted, in which case the whole total is paid up front. Required
// fields are checked by the settlement service so that missing values come
// back as field errors.
type CreateSaleRequest struct {
	ProductCode            string          `json:"product_code" binding:"omitempty,max=100"`
	Quantity               decimal.Decimal `json:"quantity"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	Counterparty           string          `json:"counterparty" binding:"omitempty,max=255"`
	PaymentType            string          `json:"payment_type" binding:"omitempty,max=50"`
	Upfront                decimal.Decimal `json:"upfront"`
	InstallmentAmount      decimal.Decimal `json:"installment_amount"`
	InstallmentCount       int             `json:"installment_count"`
	SellerName             string          `json:"seller_name" binding:"omitempty,max=255"`
	Buyer                  string          `json:"buyer" binding:"omitempty,max=255"`
	IsMailOrder            bool            `json:"is_mail_order"`
	UpfrontPaymentType     string          `json:"upfront_payment_type" binding:"omitempty,max=50"`
	InstallmentPaymentType string          `json:"installment_payment_type" binding:"omitempty,max=50"`
	Reference              string          `json:"reference" binding:"omitempty,max=100"`
	Note                   string          `json:"note"`
}

// CreatePurchaseRequest represents a stock purchase
type CreatePurchaseRequest struct {
	ProductCode string          `json:"product_code" binding:"omitempty,max=100"`
	ProductName string          `json:"product_name" binding:"omitempty,max=255"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Buyer       string          `json:"buyer" binding:"omitempty,max=255"`
	Supplier    string          `json:"supplier" binding:"omitempty,max=255"`
	Upfront     decimal.Decimal `json:"upfront"`
	DebtAmount  decimal.Decimal `json:"debt_amount"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
	Note        string          `json:"note"`
}

// PayInstallmentRequest represents a payment towards a sale's next installment
type PayInstallmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransactionFilterRequest represents transaction list parameters
type TransactionFilterRequest struct {
	Type    string `form:"type" binding:"omitempty,oneof=sale purchase"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// CreatePlanRequest represents a payment plan created without a sale
type CreatePlanRequest struct {
	Counterparty      string          `json:"counterparty" binding:"required,max=255"`
	Total             decimal.Decimal `json:"total"`
	Upfront           decimal.Decimal `json:"upfront"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentCount  int             `json:"installment_count" binding:"required,gt=0,max=120"`
	StartMonth        int             `json:"start_month" binding:"required,min=1,max=12"`
	StartYear         int             `json:"start_year" binding:"required,gt=0"`
}
