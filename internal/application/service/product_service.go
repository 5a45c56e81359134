package service

import (
	"context"
	"strings"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code  string
	Name  string
	Stock decimal.Decimal
	Cost  decimal.Decimal
	Price decimal.Decimal
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	code := utils.NormalizeCode(input.Code)
	if code == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "code", Message: "is required"}})
	}
	if input.Stock.IsNegative() || input.Cost.IsNegative() || input.Price.IsNegative() {
		return nil, apperror.NewValidationMessage("Stock, cost and price must not be negative")
	}

	// Check if code already exists
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{
		Code:  code,
		Name:  strings.TrimSpace(input.Name),
		Stock: input.Stock,
		Cost:  input.Cost,
		Price: input.Price,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProductByCode retrieves a product by its code
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products, optionally filtered by code or name
func (s *ProductService) ListProducts(ctx context.Context, params *pagination.Params, search string) (*pagination.Result[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	pag := pagination.NewMeta(params.Page, params.PerPage, total)
	return pagination.NewResult(products, pag), nil
}
