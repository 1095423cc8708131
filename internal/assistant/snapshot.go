package assistant

import (
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/report"
	"github.com/fincontrol/backend/internal/types"
	"github.com/shopspring/decimal"
)

const (
	topCategories      = 5
	recentTransactions = 5
)

type Recent struct {
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"val"`
	Category    string          `json:"cat"`
	Kind        models.Kind     `json:"type"`
}

// Snapshot is the view of an owner's finances the advisor answers from.
type Snapshot struct {
	Month              types.Month            `json:"month"`
	AccumulatedBalance decimal.Decimal        `json:"accumulatedBalance"`
	MonthlySummary     report.Summary         `json:"monthlySummary"`
	YearlySummary      report.YearSummary     `json:"yearlySummary"`
	TopCategories      []report.CategoryTotal `json:"topCategories"`
	Recent             []Recent               `json:"recentTransactions"`
}

// NewSnapshot builds the snapshot of a month. txs must be sorted newest
// first.
func NewSnapshot(txs []models.Transaction, month types.Month, now time.Time) Snapshot {
	r := report.Build(txs, month, now)

	s := Snapshot{
		Month:              month,
		AccumulatedBalance: r.AccumulatedBalance,
		MonthlySummary:     r.Summary,
		YearlySummary:      r.Year,
		TopCategories:      r.Categories,
	}

	if len(s.TopCategories) > topCategories {
		s.TopCategories = s.TopCategories[:topCategories]
	}

	for _, tx := range report.FilterMonth(txs, month) {
		if len(s.Recent) == recentTransactions {
			break
		}

		s.Recent = append(s.Recent, Recent{
			Description: tx.Description,
			Amount:      tx.Amount,
			Category:    tx.Category,
			Kind:        tx.Kind,
		})
	}

	return s
}
