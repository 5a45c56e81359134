package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/shopledger-api/internal/application/scheduler"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/testutil"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplySale_InstallmentSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "25", "250", "300")
	f.seedSeller(t, "Ayse")

	result, err := f.settlement.ApplySale(ctx, installmentSale())
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentUpfrontAndInstallment, result.PaymentType)
	testutil.RequireDecimal(t, testutil.D("25"), result.PreviousStock)
	testutil.RequireDecimal(t, testutil.D("15"), result.RemainingStock)
	testutil.RequireDecimal(t, testutil.D("15"), f.stock(t, "KUMAS-1"))
	testutil.RequireDecimal(t, testutil.D("3000"), result.Total)
	testutil.RequireDecimal(t, testutil.D("400"), result.PerInstallment)
	testutil.RequireDecimal(t, testutil.D("20"), result.Margin)
	require.NotNil(t, result.PaymentPlanID)

	in, _ := f.cell(t, 7, 2025)
	testutil.RequireDecimal(t, testutil.D("1000"), in, "origin month")
	for m := 8; m <= 12; m++ {
		in, _ := f.cell(t, m, 2025)
		testutil.RequireDecimal(t, testutil.D("400"), in, "month", m)
	}
	in, _ = f.cell(t, 1, 2026)
	assert.True(t, in.IsZero())

	plan, err := f.plans.GetByID(ctx, *result.PaymentPlanID)
	require.NoError(t, err)
	require.Len(t, plan.Installments, 5)
	assert.Equal(t, 8, plan.Installments[0].DueMonth)
	assert.Equal(t, 12, plan.Installments[4].DueMonth)
	assert.Equal(t, enum.PlanStatusActive, plan.Status)

	seller := f.seller(t, "AYSE")
	testutil.RequireDecimal(t, testutil.D("3000"), seller.LastMonth)
	testutil.RequireDecimal(t, testutil.D("3000"), seller.Last12Months)

	txn, err := f.transactions.GetByID(ctx, result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "Ayse", txn.SellerName)
	assert.Equal(t, 7, txn.OriginMonth)
	assert.False(t, txn.IsMailOrder)

	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.SettlementOperations.WithLabelValues("apply_sale", "ok")))
	assert.Equal(t, float64(6), promtestutil.ToFloat64(f.metrics.LedgerPostings.WithLabelValues("inflow")))
}

func TestApplySale_RollsOverYearEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC))
	f.seedProduct(t, "KUMAS-1", "10", "100", "100")
	f.seedSeller(t, "Ayse")

	result, err := f.settlement.ApplySale(ctx, &service.SaleInput{
		ProductCode:       "kumas-1",
		Quantity:          testutil.D("4"),
		UnitPrice:         testutil.D("100"),
		Counterparty:      "Zeynep",
		InstallmentAmount: testutil.D("400"),
		InstallmentCount:  4,
		SellerName:        "Ayse",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentInstallment, result.PaymentType)
	assert.Equal(t, []scheduler.Period{{Month: 12, Year: 2025}, {Month: 1, Year: 2026}, {Month: 2, Year: 2026}, {Month: 3, Year: 2026}}, result.DuePeriods)

	for _, p := range result.DuePeriods {
		in, _ := f.cell(t, p.Month, p.Year)
		testutil.RequireDecimal(t, testutil.D("100"), in, p)
	}
	in, _ := f.cell(t, 11, 2025)
	assert.True(t, in.IsZero(), "nothing up front")
}

func TestApplySale_NoSplitIsAllUpfront(t *testing.T) {
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "5", "0", "80")
	f.seedSeller(t, "Ayse")

	result, err := f.settlement.ApplySale(context.Background(), &service.SaleInput{
		ProductCode:  "KUMAS-1",
		Quantity:     testutil.D("2"),
		UnitPrice:    testutil.D("80"),
		Counterparty: "Zeynep",
		PaymentType:  "kart",
		SellerName:   "Ayse",
	})
	require.NoError(t, err)
	assert.Nil(t, result.PaymentPlanID)
	assert.Equal(t, enum.PaymentCard, result.PaymentType)
	assert.True(t, result.Margin.IsZero(), "zero cost gives zero margin")

	in, _ := f.cell(t, 7, 2025)
	testutil.RequireDecimal(t, testutil.D("160"), in)
}

func TestApplySale_MailOrderSkipsLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.PaymentType = "Mail Order"
	result, err := f.settlement.ApplySale(ctx, input)
	require.NoError(t, err)
	assert.True(t, result.IsMailOrder)

	for m := 7; m <= 12; m++ {
		in, _ := f.cell(t, m, 2025)
		assert.True(t, in.IsZero(), "month %d", m)
	}
	testutil.RequireDecimal(t, testutil.D("10"), f.stock(t, "KUMAS-1"))
	testutil.RequireDecimal(t, testutil.D("3000"), f.seller(t, "Ayse").LastMonth)
}

func TestApplySale_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "5", "250", "300")
	f.seedSeller(t, "Ayse")

	t.Run("unbalanced split", func(t *testing.T) {
		input := installmentSale()
		input.Quantity = testutil.D("1")
		_, err := f.settlement.ApplySale(ctx, input)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("installment amount without count", func(t *testing.T) {
		input := installmentSale()
		input.InstallmentCount = 0
		_, err := f.settlement.ApplySale(ctx, input)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("too many installments", func(t *testing.T) {
		input := installmentSale()
		input.InstallmentCount = 121
		_, err := f.settlement.ApplySale(ctx, input)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("unknown seller", func(t *testing.T) {
		input := installmentSale()
		input.SellerName = "Nobody"
		_, err := f.settlement.ApplySale(ctx, input)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unknown product", func(t *testing.T) {
		input := installmentSale()
		input.ProductCode = "YOK-1"
		_, err := f.settlement.ApplySale(ctx, input)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("insufficient stock leaves nothing behind", func(t *testing.T) {
		_, err := f.settlement.ApplySale(ctx, installmentSale())
		require.Error(t, err)
		assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "available 5, requested 10")

		testutil.RequireDecimal(t, testutil.D("5"), f.stock(t, "KUMAS-1"))
		in, _ := f.cell(t, 7, 2025)
		assert.True(t, in.IsZero())
		assert.True(t, f.seller(t, "Ayse").LastMonth.IsZero())
		plans, err := f.plans.List(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

func TestApplySale_RejectionIsLoggedAsWarning(t *testing.T) {
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "5", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.Quantity = decimal.Zero
	_, err := f.settlement.ApplySale(context.Background(), input)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	entries := f.logs.FilterMessage("settlement rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "validation_error", entries[0].ContextMap()["kind"])
}

func TestApplySale_FractionalQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "10", "100", "120")
	f.seedSeller(t, "Ayse")

	result, err := f.settlement.ApplySale(ctx, &service.SaleInput{
		ProductCode:  "KUMAS-1",
		Quantity:     testutil.D("2.5"),
		UnitPrice:    testutil.D("120"),
		Counterparty: "Zeynep",
		SellerName:   "Ayse",
	})
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("300"), result.Total)
	testutil.RequireDecimal(t, testutil.D("7.5"), result.RemainingStock)
	testutil.RequireDecimal(t, testutil.D("7.5"), f.stock(t, "KUMAS-1"))

	txn, err := f.transactions.GetByID(ctx, result.TransactionID)
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("2.5"), txn.Quantity)
	testutil.RequireDecimal(t, testutil.D("100"), txn.UnitCost)
	testutil.RequireDecimal(t, testutil.D("50"), txn.GrossProfit())

	_, err = f.settlement.ApplySale(ctx, &service.SaleInput{
		ProductCode:  "KUMAS-1",
		Quantity:     testutil.D("7.75"),
		UnitPrice:    testutil.D("120"),
		Counterparty: "Zeynep",
		SellerName:   "Ayse",
	})
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "available 7.5, requested 7.75")

	require.NoError(t, f.settlement.DeleteTransaction(ctx, result.TransactionID))
	testutil.RequireDecimal(t, testutil.D("10"), f.stock(t, "KUMAS-1"))

	purchase, err := f.settlement.ApplyPurchase(ctx, &service.PurchaseInput{
		ProductCode: "KUMAS-1",
		Quantity:    testutil.D("1.25"),
		UnitPrice:   testutil.D("80"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("100"),
	})
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("10"), purchase.PreviousStock)
	testutil.RequireDecimal(t, testutil.D("11.25"), purchase.NewStock)
	testutil.RequireDecimal(t, testutil.D("11.25"), f.stock(t, "KUMAS-1"))
}

func TestDeleteTransaction_RestoresSale(t *testing.T) {
	for _, mailOrder := range []bool{false, true} {
		mailOrder := mailOrder
		name := "counter sale"
		if mailOrder {
			name = "mail order"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, july2025)
			f.seedProduct(t, "KUMAS-1", "20", "250", "300")
			f.seedSeller(t, "Ayse")

			input := installmentSale()
			input.IsMailOrder = mailOrder
			result, err := f.settlement.ApplySale(ctx, input)
			require.NoError(t, err)

			// a payment made before deletion is reversed as well
			_, err = f.settlement.PayInstallmentForTransaction(ctx, result.TransactionID, testutil.D("400"))
			require.NoError(t, err)

			require.NoError(t, f.settlement.DeleteTransaction(ctx, result.TransactionID))

			testutil.RequireDecimal(t, testutil.D("20"), f.stock(t, "KUMAS-1"))
			seller := f.seller(t, "Ayse")
			assert.True(t, seller.LastMonth.IsZero())
			assert.True(t, seller.Last12Months.IsZero())
			for m := 7; m <= 12; m++ {
				in, _ := f.cell(t, m, 2025)
				assert.True(t, in.IsZero(), "month %d has %s", m, in)
			}

			txn, err := f.transactions.GetByID(ctx, result.TransactionID)
			require.NoError(t, err)
			assert.Nil(t, txn)
			plan, err := f.plans.GetByID(ctx, *result.PaymentPlanID)
			require.NoError(t, err)
			assert.Nil(t, plan)
		})
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	f := newFixture(t, july2025)
	err := f.settlement.DeleteTransaction(context.Background(), uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPayInstallment_PayThenUndoIsNetZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	sale, err := f.settlement.ApplySale(ctx, installmentSale())
	require.NoError(t, err)
	before, _ := f.cell(t, 8, 2025)

	paid, err := f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("400"))
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Sequence)
	assert.Equal(t, 8, paid.DueMonth)
	assert.Equal(t, int64(4), paid.UnpaidCount)

	in, _ := f.cell(t, 8, 2025)
	testutil.RequireDecimal(t, before.Add(testutil.D("400")), in)

	second, err := f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("150"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence, "FIFO")

	undone, err := f.settlement.UndoPaymentForTransaction(ctx, sale.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, 2, undone.Sequence, "LIFO")
	testutil.RequireDecimal(t, testutil.D("150"), undone.Amount)
	in, _ = f.cell(t, 9, 2025)
	testutil.RequireDecimal(t, testutil.D("400"), in)

	_, err = f.settlement.UndoPaymentForTransaction(ctx, sale.TransactionID)
	require.NoError(t, err)
	in, _ = f.cell(t, 8, 2025)
	testutil.RequireDecimal(t, before, in)

	_, err = f.settlement.UndoPaymentForTransaction(ctx, sale.TransactionID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPayInstallment_OverpaymentRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	sale, err := f.settlement.ApplySale(ctx, installmentSale())
	require.NoError(t, err)

	_, err = f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("400.50"))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	in, _ := f.cell(t, 8, 2025)
	testutil.RequireDecimal(t, testutil.D("400"), in)
	first, err := f.installments.FirstUnpaid(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)

	_, err = f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, decimal.Zero)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestPayInstallment_CardInstallmentsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.InstallmentPaymentType = "kredi"
	sale, err := f.settlement.ApplySale(ctx, input)
	require.NoError(t, err)

	_, err = f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("400"))
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestUndoPayment_CardInstallmentsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "250", "300")
	f.seedSeller(t, "Ayse")

	input := installmentSale()
	input.InstallmentPaymentType = "kart"
	sale, err := f.settlement.ApplySale(ctx, input)
	require.NoError(t, err)

	// a paid row on a card plan can only come from data entered elsewhere
	plan, err := f.plans.GetByID(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	first := plan.Installments[0]
	require.NoError(t, f.installments.MarkPaid(ctx, first.ID, first.Amount, july2025))

	_, err = f.settlement.UndoPaymentForTransaction(ctx, sale.TransactionID)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	got, err := f.installments.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	in, _ := f.cell(t, 8, 2025)
	testutil.RequireDecimal(t, testutil.D("400"), in)
}

func TestPayInstallment_CompletesAndReopensPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "20", "100", "100")
	f.seedSeller(t, "Ayse")

	sale, err := f.settlement.ApplySale(ctx, &service.SaleInput{
		ProductCode:       "KUMAS-1",
		Quantity:          testutil.D("2"),
		UnitPrice:         testutil.D("100"),
		Counterparty:      "Zeynep",
		InstallmentAmount: testutil.D("200"),
		InstallmentCount:  2,
		SellerName:        "Ayse",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("100"))
		require.NoError(t, err)
	}
	plan, err := f.plans.GetByID(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	assert.Equal(t, enum.PlanStatusCompleted, plan.Status)

	_, err = f.settlement.PayInstallmentForTransaction(ctx, sale.TransactionID, testutil.D("100"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.settlement.UndoPaymentForTransaction(ctx, sale.TransactionID)
	require.NoError(t, err)
	plan, err = f.plans.GetByID(ctx, *sale.PaymentPlanID)
	require.NoError(t, err)
	assert.Equal(t, enum.PlanStatusActive, plan.Status)
}

func TestApplyPurchase_UpfrontAndDebt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)

	result, err := f.settlement.ApplyPurchase(ctx, &service.PurchaseInput{
		ProductCode: "kadife-7",
		Quantity:    testutil.D("5"),
		UnitPrice:   testutil.D("200"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("400"),
		DebtAmount:  testutil.D("600"),
	})
	require.NoError(t, err)
	assert.True(t, result.NewProduct)
	assert.Equal(t, "KADIFE-7", result.ProductCode)
	assert.Equal(t, "ALIS-250715-100000", result.Reference)
	require.NotNil(t, result.DebtID)

	product, err := f.products.GetByCode(ctx, "KADIFE-7")
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("5"), product.Stock)
	testutil.RequireDecimal(t, testutil.D("200"), product.Cost)

	debt, err := f.debts.GetByID(ctx, *result.DebtID)
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("600"), debt.Remaining)
	assert.Equal(t, "Tekstil AS", debt.Counterparty)

	_, out := f.cell(t, 7, 2025)
	testutil.RequireDecimal(t, testutil.D("400"), out)

	txn, err := f.transactions.GetByID(ctx, result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionTypePurchase, txn.Type)
	assert.Equal(t, enum.PaymentCash, txn.PaymentType)
	assert.True(t, txn.Margin.IsZero())
}

func TestApplyPurchase_RestocksAndReplacesCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedProduct(t, "KUMAS-1", "3", "250", "300")

	result, err := f.settlement.ApplyPurchase(ctx, &service.PurchaseInput{
		ProductCode: "kumas-1",
		Quantity:    testutil.D("4"),
		UnitPrice:   testutil.D("220"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("880"),
	})
	require.NoError(t, err)
	assert.False(t, result.NewProduct)
	assert.Nil(t, result.DebtID)
	testutil.RequireDecimal(t, testutil.D("3"), result.PreviousStock)

	product, err := f.products.GetByCode(ctx, "KUMAS-1")
	require.NoError(t, err)
	testutil.RequireDecimal(t, testutil.D("7"), product.Stock)
	testutil.RequireDecimal(t, testutil.D("220"), product.Cost)
	testutil.RequireDecimal(t, testutil.D("300"), product.Price)
}

func TestApplyPurchase_Rejections(t *testing.T) {
	f := newFixture(t, july2025)
	base := service.PurchaseInput{
		ProductCode: "KUMAS-1",
		Quantity:    testutil.D("5"),
		UnitPrice:   testutil.D("200"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("400"),
		DebtAmount:  testutil.D("600"),
	}

	unbalanced := base
	unbalanced.DebtAmount = testutil.D("500")
	_, err := f.settlement.ApplyPurchase(context.Background(), &unbalanced)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	noSupplier := base
	noSupplier.Supplier = " "
	_, err = f.settlement.ApplyPurchase(context.Background(), &noSupplier)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, out := f.cell(t, 7, 2025)
	assert.True(t, out.IsZero())
}

func TestDeleteTransaction_ReversesPurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)

	result, err := f.settlement.ApplyPurchase(ctx, &service.PurchaseInput{
		ProductCode: "KUMAS-1",
		Quantity:    testutil.D("5"),
		UnitPrice:   testutil.D("200"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("400"),
		DebtAmount:  testutil.D("600"),
	})
	require.NoError(t, err)

	require.NoError(t, f.settlement.DeleteTransaction(ctx, result.TransactionID))

	testutil.RequireDecimal(t, testutil.D("0"), f.stock(t, "KUMAS-1"))
	_, out := f.cell(t, 7, 2025)
	assert.True(t, out.IsZero())
	debt, err := f.debts.GetByID(ctx, *result.DebtID)
	require.NoError(t, err)
	assert.Nil(t, debt)
}

func TestDeleteTransaction_PurchaseStockAlreadySold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, july2025)
	f.seedSeller(t, "Ayse")

	purchase, err := f.settlement.ApplyPurchase(ctx, &service.PurchaseInput{
		ProductCode: "KUMAS-1",
		Quantity:    testutil.D("5"),
		UnitPrice:   testutil.D("200"),
		Buyer:       "Ayse",
		Supplier:    "Tekstil AS",
		Upfront:     testutil.D("1000"),
	})
	require.NoError(t, err)

	_, err = f.settlement.ApplySale(ctx, &service.SaleInput{
		ProductCode:  "KUMAS-1",
		Quantity:     testutil.D("3"),
		UnitPrice:    testutil.D("250"),
		Counterparty: "Zeynep",
		SellerName:   "Ayse",
	})
	require.NoError(t, err)

	err = f.settlement.DeleteTransaction(ctx, purchase.TransactionID)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
	testutil.RequireDecimal(t, testutil.D("2"), f.stock(t, "KUMAS-1"))
}
