// Package scheduler splits a deferred amount into monthly installments.
package scheduler

import (
	"time"

	"github.com/sangkips/shopledger-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Period is a calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// AddMonths moves the period n months forward, rolling over year boundaries.
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Month: idx%12 + 1, Year: idx / 12}
}

// Next is AddMonths(1).
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Valid reports whether Month is 1..12 and Year is positive.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

// Split describes how a transaction total is divided.
type Split struct {
	Total             decimal.Decimal
	Upfront           decimal.Decimal
	InstallmentAmount decimal.Decimal
	Count             int
}

// Balanced reports whether upfront plus installment amount equals the total within tolerance.
func (s Split) Balanced() bool {
	return money.Approximately(s.Upfront.Add(s.InstallmentAmount), s.Total)
}

// Schedule is the output of a scheduling policy.
type Schedule struct {
	PerInstallment decimal.Decimal
	Periods        []Period
}

// Len returns the number of installments.
func (s Schedule) Len() int {
	return len(s.Periods)
}

// Total returns the sum of all installments.
func (s Schedule) Total() decimal.Decimal {
	return s.PerInstallment.Mul(decimal.NewFromInt(int64(len(s.Periods))))
}

// ForSale schedules installments starting the month after the transaction
// month. The cash-flow ledger is fed from this schedule.
func ForSale(installmentAmount decimal.Decimal, count int, origin Period) Schedule {
	return build(installmentAmount, count, origin.Next())
}

// Generic schedules installments starting at start itself. Used by plans
// created directly rather than through a sale.
func Generic(installmentAmount decimal.Decimal, count int, start Period) Schedule {
	return build(installmentAmount, count, start)
}

func build(installmentAmount decimal.Decimal, count int, first Period) Schedule {
	if count <= 0 {
		return Schedule{PerInstallment: decimal.Zero}
	}

	// No residue redistribution: every installment carries the same amount.
	per := installmentAmount.DivRound(decimal.NewFromInt(int64(count)), money.Scale)
	periods := make([]Period, count)
	for i := 0; i < count; i++ {
		periods[i] = first.AddMonths(i)
	}
	return Schedule{PerInstallment: per, Periods: periods}
}
