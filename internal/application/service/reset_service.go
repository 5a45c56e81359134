package service

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"go.uber.org/zap"
)

// ResetService wipes all shop data
type ResetService struct {
	txManager       repository.TxManager
	maintenanceRepo repository.MaintenanceRepository
	log             *zap.Logger
}

// NewResetService creates a new reset service
func NewResetService(txManager repository.TxManager, maintenanceRepo repository.MaintenanceRepository, log *zap.Logger) *ResetService {
	return &ResetService{
		txManager:       txManager,
		maintenanceRepo: maintenanceRepo,
		log:             log,
	}
}

// ResetAll deletes every transaction, plan, debt, product, employee and ledger cell
func (s *ResetService) ResetAll(ctx context.Context) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.maintenanceRepo.ResetAll(ctx)
	})
	if err != nil {
		return err
	}
	s.log.Warn("all shop data reset")
	return nil
}
