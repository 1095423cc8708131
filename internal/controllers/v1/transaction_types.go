package v1

import (
	"fmt"
	"time"

	"github.com/fincontrol/backend/internal/cascade"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/recurrence"
	"github.com/fincontrol/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	Description string          `json:"description" example:"Aluguel"` // Description, without the series suffix
	Amount      decimal.Decimal `json:"amount" example:"1200"`         // Amount, always positive
	Type        models.Kind     `json:"type" example:"expense"`        // income or expense
	Category    string          `json:"category" example:"Habitação"`  // Name of the category
	Date        string          `json:"date" example:"2024-01-31"`     // Date in YYYY-MM-DD or RFC3339 format
}

// fields returns the edit of current with the fields that are set
// in the request body.
func (editable TransactionEditable) fields(current models.Transaction, set []string) (cascade.Fields, error) {
	f := cascade.FieldsOf(current)

	for _, field := range set {
		switch field {
		case "Description":
			f.Description = editable.Description
		case "Amount":
			f.Amount = editable.Amount
		case "Type":
			f.Kind = editable.Type
		case "Category":
			f.Category = editable.Category
		case "Date":
			date, err := parseDate(editable.Date)
			if err != nil {
				return cascade.Fields{}, err
			}
			f.Date = date
		}
	}

	return f, nil
}

type TransactionCreate struct {
	TransactionEditable
	Recurrence recurrence.Policy `json:"recurrence"` // How many records to create. Defaults to a single one.
}

func (create TransactionCreate) template(now time.Time) (recurrence.Template, time.Time, error) {
	date := today(now)
	if create.Date != "" {
		var err error
		date, err = parseDate(create.Date)
		if err != nil {
			return recurrence.Template{}, time.Time{}, err
		}
	}

	kind := create.Type
	if kind == "" {
		kind = models.KindExpense
	}

	return recurrence.Template{
		Description: create.Description,
		Amount:      create.Amount,
		Kind:        kind,
		Category:    create.Category,
	}, date, nil
}

type TransactionLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/transactions/3b1ea324-d438-4419-882a-2fc91d71772f"`                   // The transaction itself
	TogglePaid string `json:"togglePaid" example:"https://example.com/api/v1/transactions/3b1ea324-d438-4419-882a-2fc91d71772f/toggle-paid"` // Toggles the paid flag
}

type Transaction struct {
	models.Transaction
	Overdue bool             `json:"overdue" example:"false"` // Unpaid expense past its due date
	Links   TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction, now time.Time) Transaction {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/transactions/%s", url, model.ID)

	return Transaction{
		Transaction: model,
		Overdue:     model.Overdue(now),
		Links: TransactionLinks{
			Self:       self,
			TogglePaid: self + "/toggle-paid",
		},
	}
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionQueryFilter struct {
	Month    types.Month `form:"month" swaggertype:"string" example:"2024-02"` // By month, YYYY-MM
	Type     models.Kind `form:"type"`                                         // By type, income or expense
	Category string      `form:"category"`                                     // By category name
	Search   string      `form:"search"`                                       // Glob over description and category, case-insensitive
	Offset   uint        `form:"offset"`                                       // The offset of the first transaction returned. Defaults to 0.
	Limit    int         `form:"limit"`                                        // Maximum number of transactions to return. Defaults to 50.
}
