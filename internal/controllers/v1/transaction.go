package v1

import (
	"net/http"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/ledger"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", co.OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
		r.OPTIONS("/:id/toggle-paid", OptionsTogglePaid)
		r.POST("/:id/toggle-paid", co.TogglePaid)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func (co Controller) OptionsTransactionDetail(c *gin.Context) {
	_, _, err := co.transaction(c)
	if err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/toggle-paid [options]
func OptionsTogglePaid(c *gin.Context) {
	httputil.OptionsPost(c)
}

// transaction resolves the transaction in the URI from the owner's ledger.
func (co Controller) transaction(c *gin.Context) (*ledger.Ledger, models.Transaction, error) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		return nil, models.Transaction{}, err
	}

	l, err := co.ledger(c)
	if err != nil {
		return nil, models.Transaction{}, err
	}

	transaction, err := l.Transaction(uri.ID.UUID)
	if err != nil {
		return nil, models.Transaction{}, err
	}

	return l, transaction, nil
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	l, transaction, err := co.transaction(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	data := newTransaction(c, transaction, l.Now())
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns a list of transactions, newest first. Filtering by month books the automatic salary if it is due.
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionListResponse
// @Failure		400			{object}	TransactionListResponse
// @Failure		500			{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			month		query	string	false	"Transactions of this month, YYYY-MM"
// @Param			type		query	string	false	"Filter by type, income or expense"
// @Param			category	query	string	false	"Filter by category name"
// @Param			search		query	string	false	"Search description and category. Supports * as wildcard."
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50, negative values return all."
func (co Controller) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	setFields := httputil.GetURLFields(c.Request.URL, filter)

	if filter.Type != "" && !filter.Type.Valid() {
		s := models.ErrInvalidKind.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	f := ledger.Filter{
		Kind:     filter.Type,
		Category: filter.Category,
		Search:   filter.Search,
		Offset:   filter.Offset,
	}

	if !filter.Month.IsZero() {
		f.Month = &filter.Month
	}

	// Default to 50 transactions and set the limit
	limit := ledger.DefaultLimit
	if slices.Contains(setFields, "Limit") && filter.Limit != 0 {
		limit = filter.Limit
	}
	f.Limit = limit

	transactions, total, err := l.List(c.Request.Context(), f)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	now := l.Now()
	data := make([]Transaction, 0)
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction, now))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Create transactions
// @Description	Creates a transaction, or all members of an installment or fixed series. Either all records are created or none.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionListResponse
// @Failure		400			{object}	TransactionListResponse
// @Failure		500			{object}	TransactionListResponse
// @Param			transaction	body		TransactionCreate	true	"Transaction"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransactions(c *gin.Context) {
	var create TransactionCreate
	if err := httputil.BindData(c, &create); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	template, date, err := create.template(l.Now())
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	created, err := l.Create(c.Request.Context(), template, date, create.Recurrence)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	now := l.Now()
	data := make([]Transaction, 0, len(created))
	for _, transaction := range created {
		data = append(data, newTransaction(c, transaction, now))
	}

	c.JSON(http.StatusCreated, TransactionListResponse{Data: data})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified. Later members of the same series get the new description, amount and category.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	l, transaction, err := co.transaction(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	fields, err := data.fields(transaction, updateFields)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	edited, err := l.Edit(c.Request.Context(), transaction.ID, fields)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	r := newTransaction(c, edited, l.Now())
	c.JSON(http.StatusOK, TransactionResponse{Data: &r})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction. Other members of its series are kept.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	l, transaction, err := co.transaction(c)
	if err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = l.Delete(c.Request.Context(), transaction.ID)
	if err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Toggle paid
// @Description	Marks an expense as paid, or as unpaid if it is paid already
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/toggle-paid [post]
func (co Controller) TogglePaid(c *gin.Context) {
	l, transaction, err := co.transaction(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	toggled, err := l.TogglePaid(c.Request.Context(), transaction.ID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	data := newTransaction(c, toggled, l.Now())
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}
