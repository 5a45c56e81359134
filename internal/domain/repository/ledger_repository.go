package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NoteMode selects how a posting treats the cell's note
type NoteMode int

const (
	// NoteKeep leaves the note untouched
	NoteKeep NoteMode = iota
	// NoteReplace overwrites the note
	NoteReplace
	// NoteAppend concatenates the note to the existing one
	NoteAppend
)

// LedgerPosting is one signed change to a ledger cell
type LedgerPosting struct {
	Month        int
	Year         int
	InflowDelta  decimal.Decimal
	OutflowDelta decimal.Decimal
	Note         string
	NoteMode     NoteMode
}

// LedgerRepository defines the interface for ledger cell data operations
type LedgerRepository interface {
	// Post upserts the cell in a single statement: new value = max(0, old + delta)
	Post(ctx context.Context, posting LedgerPosting) error
	GetByPeriod(ctx context.Context, month, year int) (*entity.LedgerCell, error)
	ListByYear(ctx context.Context, year int) ([]entity.LedgerCell, error)
	DeleteAll(ctx context.Context) error
}
