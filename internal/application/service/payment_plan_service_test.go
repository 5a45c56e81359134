package service_test

import (
	"context"
	"testing"

	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/testutil"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentPlanService_CreateStartsAtGivenMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)

	plan, err := f.planService.CreatePlan(ctx, &service.CreatePlanInput{
		Counterparty:      "Hasan",
		Total:             testutil.D("900"),
		InstallmentAmount: testutil.D("900"),
		InstallmentCount:  3,
		StartMonth:        12,
		StartYear:         2025,
	})
	require.NoError(t, err)
	require.Len(t, plan.Installments, 3)
	assert.Equal(t, 12, plan.Installments[0].DueMonth)
	assert.Equal(t, 2026, plan.Installments[2].DueYear)
	assert.Equal(t, 2, plan.Installments[2].DueMonth)

	in, _ := f.cell(t, 12, 2025)
	assert.True(t, in.IsZero(), "creating a plan posts nothing")

	paid, err := f.planService.PayInstallment(ctx, plan.Installments[0].ID)
	require.NoError(t, err)
	assert.True(t, paid.LedgerAffected)
	in, _ = f.cell(t, 12, 2025)
	testutil.RequireDecimal(t, testutil.D("300"), in)

	_, err = f.planService.PayInstallment(ctx, plan.Installments[0].ID)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestPaymentPlanService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)

	plan, err := f.planService.CreatePlan(ctx, &service.CreatePlanInput{
		Counterparty:      "Hasan",
		Total:             testutil.D("200"),
		InstallmentAmount: testutil.D("200"),
		InstallmentCount:  2,
		StartMonth:        8,
		StartYear:         2025,
	})
	require.NoError(t, err)

	cancelled, err := f.planService.CancelPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PlanStatusCancelled, cancelled.Status)

	_, err = f.planService.PayInstallment(ctx, plan.Installments[0].ID)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	status := enum.PlanStatusCancelled
	plans, err := f.planService.ListPlans(ctx, &status)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestPaymentPlanService_Validation(t *testing.T) {
	f := newFixture(t, july2025)

	_, err := f.planService.CreatePlan(context.Background(), &service.CreatePlanInput{
		Counterparty:      "Hasan",
		Total:             testutil.D("1000"),
		InstallmentAmount: testutil.D("900"),
		InstallmentCount:  3,
		StartMonth:        1,
		StartYear:         2026,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.planService.CreatePlan(context.Background(), &service.CreatePlanInput{
		Counterparty:      "Hasan",
		Total:             testutil.D("900"),
		InstallmentAmount: testutil.D("900"),
		InstallmentCount:  0,
		StartMonth:        1,
		StartYear:         2026,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestPaymentPlanService_MailOrderPlanSkipsLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.IsMailOrder = true
	sale, err := f.settlement.ApplySale(ctx, input)
	require.NoError(t, err)

	plan, err := f.planService.GetPlan(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	paid, err := f.planService.PayInstallment(ctx, plan.Installments[0].ID)
	require.NoError(t, err)
	assert.False(t, paid.LedgerAffected)
	assert.Equal(t, sale.TransactionID, paid.TransactionID)

	in, _ := f.cell(t, 8, 2025)
	assert.True(t, in.IsZero())
}

func TestPaymentPlanService_CardPlanNotPaidByShop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.InstallmentPaymentType = "kart"
	sale, err := f.settlement.ApplySale(ctx, input)
	require.NoError(t, err)

	plan, err := f.planService.GetPlan(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	_, err = f.planService.PayInstallment(ctx, plan.Installments[0].ID)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	in, _ := f.cell(t, 8, 2025)
	testutil.RequireDecimal(t, testutil.D("400"), in)
	inst, err := f.installments.GetByID(ctx, plan.Installments[0].ID)
	require.NoError(t, err)
	assert.False(t, inst.Paid)
}
