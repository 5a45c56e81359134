package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Code  string          `json:"code" binding:"required,max=100"`
	Name  string          `json:"name" binding:"omitempty,max=255"`
	Stock decimal.Decimal `json:"stock"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// CreateEmployeeRequest represents an employee creation request
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Position string `json:"position" binding:"omitempty,max=100"`
}
