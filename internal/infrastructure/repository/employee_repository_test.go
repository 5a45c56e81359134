package repository_test

import (
	"context"
	"testing"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_RollingTotals(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEmployeeRepository(testutil.NewDB(t))
	e := &entity.Employee{Name: "Ayse Kaya", Last12Months: testutil.D("500")}
	require.NoError(t, repo.Create(ctx, e))

	found, err := repo.GetByName(ctx, "ayse KAYA")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, e.ID, found.ID)

	require.NoError(t, repo.AddToRollingTotals(ctx, e.ID, testutil.D("3000")))
	require.NoError(t, repo.AddToRollingTotals(ctx, e.ID, testutil.D("-3200")))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.LastMonth.IsZero(), "clamped at zero")
	assert.True(t, got.Last3Months.IsZero())
	assert.True(t, got.Last6Months.IsZero())
	testutil.RequireDecimal(t, testutil.D("300"), got.Last12Months)
}
