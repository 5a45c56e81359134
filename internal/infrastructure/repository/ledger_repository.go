package repository

import (
	"context"
	"errors"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteSeparator joins appended ledger notes
const NoteSeparator = "; "

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Post inserts the cell for the period or accumulates into the existing one.
// The whole read-modify-write happens inside the INSERT ... ON CONFLICT
// statement, so concurrent postings to one period serialize on the row.
func (r *ledgerRepository) Post(ctx context.Context, p domainRepo.LedgerPosting) error {
	cell := entity.LedgerCell{
		Month:   p.Month,
		Year:    p.Year,
		Inflow:  money.ClampZero(p.InflowDelta),
		Outflow: money.ClampZero(p.OutflowDelta),
	}

	set := clause.Set{
		{
			Column: clause.Column{Name: "inflow"},
			Value:  gorm.Expr("CASE WHEN ledger_cells.inflow + ? < 0 THEN 0 ELSE ledger_cells.inflow + ? END", p.InflowDelta, p.InflowDelta),
		},
		{
			Column: clause.Column{Name: "outflow"},
			Value:  gorm.Expr("CASE WHEN ledger_cells.outflow + ? < 0 THEN 0 ELSE ledger_cells.outflow + ? END", p.OutflowDelta, p.OutflowDelta),
		},
		{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("CURRENT_TIMESTAMP")},
	}

	switch p.NoteMode {
	case domainRepo.NoteReplace:
		cell.Note = p.Note
		set = append(set, clause.Assignment{Column: clause.Column{Name: "note"}, Value: p.Note})
	case domainRepo.NoteAppend:
		cell.Note = p.Note
		set = append(set, clause.Assignment{
			Column: clause.Column{Name: "note"},
			Value: gorm.Expr("CASE WHEN ledger_cells.note IS NULL OR ledger_cells.note = '' THEN ? ELSE ledger_cells.note || ? END",
				p.Note, NoteSeparator+p.Note),
		})
	}

	return DB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}, {Name: "year"}},
		DoUpdates: set,
	}).Create(&cell).Error
}

func (r *ledgerRepository) GetByPeriod(ctx context.Context, month, year int) (*entity.LedgerCell, error) {
	var cell entity.LedgerCell
	err := DB(ctx, r.db).
		Where("month = ? AND year = ?", month, year).
		First(&cell).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cell, err
}

func (r *ledgerRepository) ListByYear(ctx context.Context, year int) ([]entity.LedgerCell, error) {
	var cells []entity.LedgerCell
	err := DB(ctx, r.db).
		Where("year = ?", year).
		Order("month ASC").
		Find(&cells).Error
	return cells, err
}

func (r *ledgerRepository) DeleteAll(ctx context.Context) error {
	return DB(ctx, r.db).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entity.LedgerCell{}).Error
}
