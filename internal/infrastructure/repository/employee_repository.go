package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// rollingColumns are the trailing sales windows kept on each employee
var rollingColumns = []string{"last_month", "last_3_months", "last_6_months", "last_12_months"}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	return DB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := DB(ctx, r.db).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) GetByName(ctx context.Context, name string) (*entity.Employee, error) {
	var employee entity.Employee
	err := DB(ctx, r.db).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee
	err := DB(ctx, r.db).Order("name ASC").Find(&employees).Error
	return employees, err
}

// AddToRollingTotals applies delta to every window in one statement.
// Each column is clamped at zero so a reversal never drives a total negative.
func (r *employeeRepository) AddToRollingTotals(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	updates := make(map[string]interface{}, len(rollingColumns))
	for _, col := range rollingColumns {
		updates[col] = gorm.Expr("CASE WHEN "+col+" + ? < 0 THEN 0 ELSE "+col+" + ? END", delta, delta)
	}
	return DB(ctx, r.db).Model(&entity.Employee{}).
		Where("id = ?", id).
		Updates(updates).Error
}
