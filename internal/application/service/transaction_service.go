package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/pagination"
)

// TransactionService provides read access to sales and purchases.
// Writes go through SettlementService.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(transactionRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions newest first. typ may be "", "sale" or "purchase".
func (s *TransactionService) ListTransactions(ctx context.Context, params *pagination.Params, typ, search string) (*pagination.Result[entity.Transaction], error) {
	filter := &repository.TransactionFilterParams{
		Pagination: params,
		Search:     strings.TrimSpace(search),
	}
	if typ != "" {
		parsed, ok := enum.ParseTransactionType(typ)
		if !ok {
			return nil, apperror.NewBadRequestError("Unknown transaction type: " + typ)
		}
		filter.Type = &parsed
	}

	txns, total, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewMeta(params.Page, params.PerPage, total)
	return pagination.NewResult(txns, pag), nil
}
