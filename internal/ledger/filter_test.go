package ledger_test

import (
	"context"
	"testing"

	"github.com/fincontrol/backend/internal/ledger"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/recurrence"
	"github.com/fincontrol/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func (suite *TestSuiteStandard) TestListFilters() {
	l := suite.open()

	mercado := template("Mercado Extra", 300, models.KindExpense)
	mercado.Category = "Alimentação"
	suite.create(l, mercado, noon(2024, 2, 3), recurrence.Policy{})

	uber := template("Uber", 25, models.KindExpense)
	uber.Category = "Transporte"
	suite.create(l, uber, noon(2024, 2, 4), recurrence.Policy{})

	freela := template("Freela", 800, models.KindIncome)
	freela.Category = "Outros"
	suite.create(l, freela, noon(2024, 1, 20), recurrence.Policy{})

	suite.create(l, template("Aluguel", 1000, models.KindExpense), noon(2024, 1, 31), recurrence.Policy{Mode: recurrence.ModeInstallments, Count: 3})

	tests := []struct {
		name   string
		filter ledger.Filter
		want   []string
	}{
		{"month", ledger.Filter{Month: ptr(types.NewMonth(2024, 2))}, []string{"Aluguel (2/3)", "Uber", "Mercado Extra"}},
		{"kind", ledger.Filter{Kind: models.KindIncome}, []string{"Freela"}},
		{"category", ledger.Filter{Category: "Transporte"}, []string{"Uber"}},
		{"search word", ledger.Filter{Search: "extra"}, []string{"Mercado Extra"}},
		{"search glob", ledger.Filter{Search: "aluguel*"}, []string{"Aluguel (3/3)", "Aluguel (2/3)", "Aluguel (1/3)"}},
		{"search category", ledger.Filter{Search: "TRANSPORTE"}, []string{"Uber"}},
		{"no match", ledger.Filter{Search: "cinema"}, []string{}},
		{"combined", ledger.Filter{Month: ptr(types.NewMonth(2024, 1)), Kind: models.KindExpense}, []string{"Aluguel (1/3)"}},
		{"paged", ledger.Filter{Offset: 1, Limit: 2}, []string{"Aluguel (2/3)", "Uber"}},
		{"offset past end", ledger.Filter{Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			list, _, err := l.List(context.Background(), tt.filter)
			require.Nil(t, err)

			descriptions := make([]string, 0, len(list))
			for _, tx := range list {
				descriptions = append(descriptions, tx.Description)
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

func (suite *TestSuiteStandard) TestListTotalAndDefaultLimit() {
	l := suite.open()
	suite.create(l, template("Internet", 100, models.KindExpense), noon(2024, 1, 10), recurrence.Policy{Mode: recurrence.ModeFixed, Count: 60})

	list, total, err := l.List(context.Background(), ledger.Filter{})
	suite.Require().Nil(err)
	suite.Assert().Equal(60, total)
	suite.Assert().Len(list, ledger.DefaultLimit)

	list, _, err = l.List(context.Background(), ledger.Filter{Limit: -1})
	suite.Require().Nil(err)
	suite.Assert().Len(list, 60)
}
