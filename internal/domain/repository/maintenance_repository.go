package repository

import "context"

// MaintenanceRepository defines store-wide operations
type MaintenanceRepository interface {
	// ResetAll deletes every domain row, including the ledger
	ResetAll(ctx context.Context) error
}
