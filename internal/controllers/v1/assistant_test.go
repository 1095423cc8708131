package v1_test

import (
	"errors"
	"net/http"

	"github.com/fincontrol/backend/internal/assistant"
	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/ledger"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/store"
	"github.com/fincontrol/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAssistantParseEntry() {
	token := suite.signUp("ana@example.com")
	suite.generator.out = "```json\n{\"description\": \"Almoço\", \"amount\": 35.9, \"type\": \"expense\", \"category\": \"alimentação\"}\n```"

	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/entries", v1.EntryRequest{Text: "almoço 35,90"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EntryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Almoço", response.Data.Description)
	suite.Assert().True(decimal.NewFromFloat(35.9).Equal(response.Data.Amount))
	suite.Assert().Equal(models.KindExpense, response.Data.Kind)
	suite.Assert().Equal("Alimentação", response.Data.Category)
	suite.Assert().Equal("http://example.com/v1/transactions", response.Data.Links.Create)

	// Nothing is stored
	r = suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Empty(list.Data)
}

func (suite *TestSuiteStandard) TestAssistantParseEntryFails() {
	token := suite.signUp("ana@example.com")

	suite.generator.out = "I am not sure"
	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/entries", v1.EntryRequest{Text: "something"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnprocessableEntity)

	suite.generator.err = errors.New("quota exceeded")
	r = suite.request(token, http.MethodPost, "http://example.com/v1/assistant/entries", v1.EntryRequest{Text: "something"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)

	r = suite.request(token, http.MethodPost, "http://example.com/v1/assistant/entries", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAssistantChat() {
	token := suite.signUp("ana@example.com")
	suite.generator.out = "Você gastou R$ 0,00 com lazer."

	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/chat?month=2024-02", v1.Question{Message: " Quanto gastei com lazer? "})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var message v1.MessageResponse
	test.DecodeResponse(suite.T(), &r, &message)
	suite.Assert().Equal(assistant.RoleAssistant, message.Data.Role)
	suite.Assert().Equal("Você gastou R$ 0,00 com lazer.", message.Data.Content)

	r = suite.request(token, http.MethodGet, "http://example.com/v1/assistant/chat", "")
	var chat v1.ChatResponse
	test.DecodeResponse(suite.T(), &r, &chat)
	suite.Require().Len(chat.Data, 2)
	suite.Assert().Equal("Quanto gastei com lazer?", chat.Data[0].Content)

	r = suite.request(token, http.MethodDelete, "http://example.com/v1/assistant/chat", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(token, http.MethodGet, "http://example.com/v1/assistant/chat", "")
	test.DecodeResponse(suite.T(), &r, &chat)
	suite.Assert().Empty(chat.Data)
}

func (suite *TestSuiteStandard) TestAssistantChatApologizes() {
	token := suite.signUp("ana@example.com")
	suite.generator.err = errors.New("timeout")

	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/chat", v1.Question{Message: "Oi"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var message v1.MessageResponse
	test.DecodeResponse(suite.T(), &r, &message)
	suite.Assert().Equal(assistant.Apology, message.Data.Content)
}

func (suite *TestSuiteStandard) TestAssistantChatFails() {
	token := suite.signUp("ana@example.com")

	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/chat", v1.Question{Message: "  "})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(token, http.MethodPost, "http://example.com/v1/assistant/chat?month=2024-13", v1.Question{Message: "Oi"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAssistantUnavailable() {
	suite.controller.Ledgers = ledger.NewRegistry(store.New(models.DB), nil, assistant.New(nil))
	token := suite.signUp("ana@example.com")

	r := suite.request(token, http.MethodPost, "http://example.com/v1/assistant/entries", v1.EntryRequest{Text: "almoço 35,90"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)

	r = suite.request(token, http.MethodPost, "http://example.com/v1/assistant/chat", v1.Question{Message: "Oi"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)

	// Everything else keeps working
	r = suite.request(token, http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}
