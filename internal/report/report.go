// Package report computes the derived views over an owner's transactions.
//
// All functions are pure. Months are bucketed by the UTC calendar date of
// each transaction.
package report

import (
	"sort"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Summary holds the totals of a set of transactions.
type Summary struct {
	Income      decimal.Decimal `json:"income" example:"2500"`
	Expense     decimal.Decimal `json:"expense" example:"1200"`
	PaidExpense decimal.Decimal `json:"paidExpense" example:"800"`
	Total       decimal.Decimal `json:"total" example:"1300"` // Income minus expense
}

type CategoryTotal struct {
	Category string          `json:"category" example:"Habitação"`
	Amount   decimal.Decimal `json:"amount" example:"1000"`
}

type MonthValue struct {
	Month types.Month     `json:"month" swaggertype:"string" example:"2024-02"`
	Value decimal.Decimal `json:"value" example:"350"`
}

type MonthTotals struct {
	Month   types.Month     `json:"month" swaggertype:"string" example:"2024-02"`
	Income  decimal.Decimal `json:"income" example:"2500"`
	Expense decimal.Decimal `json:"expense" example:"1900"`
}

// Comparison holds the totals of a month and the month before it.
type Comparison struct {
	Previous MonthTotals `json:"previous"`
	Current  MonthTotals `json:"current"`
}

type YearSummary struct {
	Year    int             `json:"year" example:"2024"`
	Income  decimal.Decimal `json:"income" example:"7500"`
	Expense decimal.Decimal `json:"expense" example:"5100"`
	Total   decimal.Decimal `json:"total" example:"2400"`
}

// Report bundles every view of a month.
type Report struct {
	Month              types.Month     `json:"month" swaggertype:"string" example:"2024-02"`
	Summary            Summary         `json:"summary"`
	AccumulatedBalance decimal.Decimal `json:"accumulatedBalance" example:"4210.5"`
	Categories         []CategoryTotal `json:"categories"`
	Trend              []MonthValue    `json:"trend"`           // Accumulated balance at the end of each month of the year
	MonthlyExpenses    []MonthValue    `json:"monthlyExpenses"` // Expenses of each month of the year
	Comparison         Comparison      `json:"comparison"`
	Year               YearSummary     `json:"year"`
	OverdueCount       int             `json:"overdueCount" example:"1"`
	OverdueAmount      decimal.Decimal `json:"overdueAmount" example:"120"`
}

func signed(tx models.Transaction) decimal.Decimal {
	if tx.Kind == models.KindIncome {
		return tx.Amount
	}
	return tx.Amount.Neg()
}

// FilterMonth returns the transactions dated in the month, keeping their order.
func FilterMonth(txs []models.Transaction, month types.Month) []models.Transaction {
	out := make([]models.Transaction, 0)
	for _, tx := range txs {
		if month.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}

// MonthlySummary sums the given transactions.
func MonthlySummary(txs []models.Transaction) Summary {
	s := Summary{
		Income:      decimal.Zero,
		Expense:     decimal.Zero,
		PaidExpense: decimal.Zero,
	}

	for _, tx := range txs {
		if tx.Kind == models.KindIncome {
			s.Income = s.Income.Add(tx.Amount)
			continue
		}

		s.Expense = s.Expense.Add(tx.Amount)
		if tx.Paid {
			s.PaidExpense = s.PaidExpense.Add(tx.Amount)
		}
	}

	s.Total = s.Income.Sub(s.Expense)
	return s
}

// AccumulatedBalance returns the net of all transactions dated at or before
// the last instant of the month.
func AccumulatedBalance(txs []models.Transaction, month types.Month) decimal.Decimal {
	return balanceUntil(txs, month.End())
}

func balanceUntil(txs []models.Transaction, until time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if !tx.Date.After(until) {
			total = total.Add(signed(tx))
		}
	}

	return total
}

// CategoryBreakdown groups the expenses by category, largest first.
// Income is ignored.
func CategoryBreakdown(txs []models.Transaction) []CategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Kind != models.KindExpense {
			continue
		}

		if current, ok := sums[tx.Category]; ok {
			sums[tx.Category] = current.Add(tx.Amount)
		} else {
			sums[tx.Category] = tx.Amount
		}
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		out = append(out, CategoryTotal{Category: category, Amount: amount})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})

	return out
}

// YearTrend returns, for every month from January up to the given month,
// the accumulated balance at the end of that month.
func YearTrend(txs []models.Transaction, month types.Month) []MonthValue {
	out := make([]MonthValue, 0, int(month.Month()))
	for m := types.NewMonth(month.Year(), time.January); !m.After(month); m = m.AddDate(0, 1) {
		out = append(out, MonthValue{Month: m, Value: AccumulatedBalance(txs, m)})
	}

	return out
}

// MonthlyExpenses returns the expenses of every month from January up to the
// given month.
func MonthlyExpenses(txs []models.Transaction, month types.Month) []MonthValue {
	out := make([]MonthValue, 0, int(month.Month()))
	for m := types.NewMonth(month.Year(), time.January); !m.After(month); m = m.AddDate(0, 1) {
		out = append(out, MonthValue{Month: m, Value: MonthlySummary(FilterMonth(txs, m)).Expense})
	}

	return out
}

func totals(txs []models.Transaction, month types.Month) MonthTotals {
	s := MonthlySummary(FilterMonth(txs, month))
	return MonthTotals{Month: month, Income: s.Income, Expense: s.Expense}
}

// Compare returns the totals of the month and of the month before.
func Compare(txs []models.Transaction, month types.Month) Comparison {
	return Comparison{
		Previous: totals(txs, month.AddDate(0, -1)),
		Current:  totals(txs, month),
	}
}

// YearSummarize sums the transactions of ref's year dated at or before ref.
func YearSummarize(txs []models.Transaction, ref time.Time) YearSummary {
	ref = ref.UTC()

	var year []models.Transaction
	for _, tx := range txs {
		if tx.Date.UTC().Year() == ref.Year() && !tx.Date.After(ref) {
			year = append(year, tx)
		}
	}

	s := MonthlySummary(year)
	return YearSummary{Year: ref.Year(), Income: s.Income, Expense: s.Expense, Total: s.Total}
}

// Build computes the full report of a month.
//
// The year summary runs up to now when the month is the current one and up
// to the end of the month otherwise.
func Build(txs []models.Transaction, month types.Month, now time.Time) Report {
	inMonth := FilterMonth(txs, month)

	ref := month.End()
	if month.Contains(now) {
		ref = now
	}

	r := Report{
		Month:              month,
		Summary:            MonthlySummary(inMonth),
		AccumulatedBalance: AccumulatedBalance(txs, month),
		Categories:         CategoryBreakdown(inMonth),
		Trend:              YearTrend(txs, month),
		MonthlyExpenses:    MonthlyExpenses(txs, month),
		Comparison:         Compare(txs, month),
		Year:               YearSummarize(txs, ref),
		OverdueAmount:      decimal.Zero,
	}

	for _, tx := range inMonth {
		if tx.Overdue(now) {
			r.OverdueCount++
			r.OverdueAmount = r.OverdueAmount.Add(tx.Amount)
		}
	}

	return r
}
