package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/recurrence"
	"github.com/fincontrol/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTransactions(token string, create v1.TransactionCreate) []v1.Transaction {
	r := suite.request(token, http.MethodPost, "http://example.com/v1/transactions", create)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return response.Data
}

func aluguel() v1.TransactionCreate {
	return v1.TransactionCreate{
		TransactionEditable: v1.TransactionEditable{
			Description: "Aluguel",
			Amount:      decimal.NewFromInt(1000),
			Type:        models.KindExpense,
			Category:    "Habitação",
			Date:        "2024-01-31",
		},
		Recurrence: recurrence.Policy{Mode: recurrence.ModeInstallments, Count: 3},
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreateSeries() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())
	suite.Require().Len(created, 3)

	descriptions := []string{"Aluguel (1/3)", "Aluguel (2/3)", "Aluguel (3/3)"}
	days := []int{31, 29, 31}
	for i, tx := range created {
		suite.Assert().Equal(descriptions[i], tx.Description)
		suite.Assert().Equal(days[i], tx.Date.Day())
		suite.Assert().Equal(i+1, *tx.InstallmentCurrent)
		suite.Assert().Equal(3, *tx.InstallmentTotal)
		suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/transactions/%s", tx.ID), tx.Links.Self)
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreateDefaults() {
	token := suite.signUp("ana@example.com")

	created := suite.createTransactions(token, v1.TransactionCreate{
		TransactionEditable: v1.TransactionEditable{
			Description: "Mercado",
			Amount:      decimal.NewFromFloat(35.9),
			Category:    "Alimentação",
		},
	})
	suite.Require().Len(created, 1)
	suite.Assert().Equal(models.KindExpense, created[0].Kind)
	suite.Assert().Equal(12, created[0].Date.Hour())
	suite.Assert().Nil(created[0].InstallmentTotal)
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	token := suite.signUp("ana@example.com")

	invalidDate := aluguel()
	invalidDate.Date = "31/01/2024"

	zeroAmount := aluguel()
	zeroAmount.Amount = decimal.Zero

	invalidCount := aluguel()
	invalidCount.Recurrence.Count = 1

	invalidKind := aluguel()
	invalidKind.Type = "transfer"

	tests := []struct {
		name string
		body any
	}{
		{"Invalid date", invalidDate},
		{"Zero amount", zeroAmount},
		{"Single installment", invalidCount},
		{"Invalid type", invalidKind},
		{"Broken body", `{ "description": 2 }`},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/transactions", tt.body, map[string]string{"Authorization": "Bearer " + token})
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}

	// Nothing was stored
	r := suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Empty(list.Data)
}

func (suite *TestSuiteStandard) TestTransactionsList() {
	token := suite.signUp("ana@example.com")
	suite.createTransactions(token, aluguel())
	suite.createTransactions(token, v1.TransactionCreate{
		TransactionEditable: v1.TransactionEditable{
			Description: "Salário",
			Amount:      decimal.NewFromInt(2500),
			Type:        models.KindIncome,
			Category:    "Salário",
			Date:        "2024-02-05",
		},
	})

	tests := []struct {
		query string
		count int
		total int
	}{
		{"", 4, 4},
		{"month=2024-02", 2, 2},
		{"month=2024-02&type=expense", 1, 1},
		{"type=income", 1, 1},
		{"category=Habita%C3%A7%C3%A3o", 3, 3},
		{"search=alug*", 3, 3},
		{"search=nothing", 0, 0},
		{"limit=2", 2, 4},
		{"limit=2&offset=3", 1, 4},
		{"limit=-1", 4, 4},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodGet, "http://example.com/v1/transactions?"+tt.query, "", map[string]string{"Authorization": "Bearer " + token})
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var list v1.TransactionListResponse
			test.DecodeResponse(t, &r, &list)

			assert.Len(t, list.Data, tt.count)
			assert.Equal(t, tt.count, list.Pagination.Count)
			assert.Equal(t, tt.total, list.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsListNewestFirst() {
	token := suite.signUp("ana@example.com")
	suite.createTransactions(token, aluguel())

	r := suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)

	suite.Require().Len(list.Data, 3)
	suite.Assert().Equal("Aluguel (3/3)", list.Data[0].Description)
	suite.Assert().Equal("Aluguel (1/3)", list.Data[2].Description)
	suite.Assert().Equal(50, list.Pagination.Limit)
}

func (suite *TestSuiteStandard) TestTransactionsListFails() {
	token := suite.signUp("ana@example.com")

	for _, query := range []string{"month=2024-13", "type=transfer", "offset=-1"} {
		r := suite.request(token, http.MethodGet, "http://example.com/v1/transactions?"+query, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestTransactionsOwnerIsolation() {
	ana := suite.signUp("ana@example.com")
	bia := suite.signUp("bia@example.com")

	created := suite.createTransactions(ana, aluguel())

	r := suite.request(bia, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Empty(list.Data)

	r = suite.request(bia, http.MethodGet, created[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(bia, http.MethodDelete, created[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionGet() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())

	r := suite.request(token, http.MethodGet, created[1].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(created[1].ID, response.Data.ID)

	r = suite.request(token, http.MethodGet, "http://example.com/v1/transactions/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(token, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionUpdateCascades() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())

	r := suite.request(token, http.MethodPatch, created[1].Links.Self, map[string]any{
		"description": "Aluguel Novo",
		"amount":      "1200",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Aluguel Novo (2/3)", response.Data.Description)
	suite.Assert().True(decimal.NewFromInt(1200).Equal(response.Data.Amount))
	suite.Assert().Equal(29, response.Data.Date.Day(), "fields that are not set are kept")

	r = suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 3)

	suite.Assert().Equal("Aluguel Novo (3/3)", list.Data[0].Description)
	suite.Assert().True(decimal.NewFromInt(1200).Equal(list.Data[0].Amount))
	suite.Assert().Equal("Aluguel (1/3)", list.Data[2].Description)
	suite.Assert().True(decimal.NewFromInt(1000).Equal(list.Data[2].Amount))
}

func (suite *TestSuiteStandard) TestTransactionUpdateFails() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())

	tests := []struct {
		name   string
		url    string
		body   any
		status int
	}{
		{"Empty description", created[0].Links.Self, `{ "description": " " }`, http.StatusBadRequest},
		{"Negative amount", created[0].Links.Self, `{ "amount": "-5" }`, http.StatusBadRequest},
		{"Invalid date", created[0].Links.Self, `{ "date": "yesterday" }`, http.StatusBadRequest},
		{"Broken body", created[0].Links.Self, `{ "description": "Aluguel"`, http.StatusBadRequest},
		{"Not found", fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), `{}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPatch, tt.url, tt.body, map[string]string{"Authorization": "Bearer " + token})
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionTogglePaid() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())

	r := suite.request(token, http.MethodPost, created[0].Links.TogglePaid, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.Paid)
	suite.Assert().False(response.Data.Overdue)

	r = suite.request(token, http.MethodPost, created[0].Links.TogglePaid, "")
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().False(response.Data.Paid)
	suite.Assert().True(response.Data.Overdue)
}

func (suite *TestSuiteStandard) TestTransactionTogglePaidIncome() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, v1.TransactionCreate{
		TransactionEditable: v1.TransactionEditable{
			Description: "Freela",
			Amount:      decimal.NewFromInt(400),
			Type:        models.KindIncome,
			Category:    "Outros",
			Date:        "2024-02-12",
		},
	})

	r := suite.request(token, http.MethodPost, created[0].Links.TogglePaid, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionDelete() {
	token := suite.signUp("ana@example.com")
	created := suite.createTransactions(token, aluguel())

	r := suite.request(token, http.MethodDelete, created[1].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(token, http.MethodGet, created[1].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 2)
}

func (suite *TestSuiteStandard) TestTransactionsDatabaseClosed() {
	token := suite.signUp("ana@example.com")
	suite.CloseDB()

	r := suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestTransactionsUseLedgerClock() {
	suite.controller.Ledgers.Now = func() time.Time {
		return time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	}
	token := suite.signUp("ana@example.com")

	luz := v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
		Description: "Luz",
		Amount:      decimal.NewFromInt(150),
		Category:    "Habitação",
		Date:        "2024-02-05",
	}}
	agua := luz
	agua.Description = "Água"
	agua.Date = "2024-02-20"
	mercado := luz
	mercado.Description = "Mercado"
	mercado.Date = ""

	suite.Assert().True(suite.createTransactions(token, luz)[0].Overdue)
	suite.Assert().False(suite.createTransactions(token, agua)[0].Overdue)

	created := suite.createTransactions(token, mercado)[0]
	suite.Assert().Equal(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), created.Date.UTC())
	suite.Assert().False(created.Overdue)

	r := suite.request(token, http.MethodGet, "http://example.com/v1/transactions?month=2024-02", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	overdue := map[string]bool{}
	for _, tx := range response.Data {
		overdue[tx.Description] = tx.Overdue
	}
	suite.Assert().Equal(map[string]bool{"Luz": true, "Água": false, "Mercado": false}, overdue)
}
