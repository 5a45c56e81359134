package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *gorm.DB) domainRepo.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

// ResetAll deletes children before parents.
func (r *maintenanceRepository) ResetAll(ctx context.Context) error {
	models := []interface{}{
		&entity.Installment{},
		&entity.PaymentPlan{},
		&entity.Transaction{},
		&entity.PlannedPayment{},
		&entity.DebtRecord{},
		&entity.ExpectedPayment{},
		&entity.LedgerCell{},
		&entity.Product{},
		&entity.Employee{},
		&entity.IdempotencyKey{},
	}

	db := DB(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range models {
		if err := db.Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
