package v1

import (
	"net/http"
	"strings"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/gin-gonic/gin"
)

type EntryRequest struct {
	Text string `json:"text" example:"almoço 35,90 no restaurante"` // Free text describing one transaction
}

type EntryLinks struct {
	Create string `json:"create" example:"https://example.com/api/v1/transactions"` // Where to send the draft once confirmed
}

type Entry struct {
	assistant.Entry
	Links EntryLinks `json:"links"`
}

type EntryResponse struct {
	Data  *Entry  `json:"data"`                                                               // The transaction draft. Nothing is stored.
	Error *string `json:"error" example:"could not understand the entry, please rephrase it"` // The error, if any occurred
}

type Question struct {
	Message string `json:"message" example:"Quanto gastei com lazer este mês?"` // The question
}

type ChatResponse struct {
	Data  []assistant.Message `json:"data"`                                           // The chat history, oldest first
	Error *string             `json:"error" example:"the assistant is not available"` // The error, if any occurred
}

type MessageResponse struct {
	Data  *assistant.Message `json:"data"`                                           // The answer
	Error *string            `json:"error" example:"the assistant is not available"` // The error, if any occurred
}

// RegisterAssistantRoutes registers the routes for the assistant with
// the RouterGroup that is passed.
func (co Controller) RegisterAssistantRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/entries", OptionsEntries)
		r.POST("/entries", co.ParseEntry)
	}

	{
		r.OPTIONS("/chat", OptionsChat)
		r.GET("/chat", co.GetChat)
		r.POST("/chat", co.Ask)
		r.DELETE("/chat", co.ClearChat)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Assistant
// @Success		204
// @Router			/v1/assistant/entries [options]
func OptionsEntries(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Assistant
// @Success		204
// @Router			/v1/assistant/chat [options]
func OptionsChat(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// @Summary		Parse entry
// @Description	Turns free text into a transaction draft. The category is one of the owner's categories or "Outros".
// @Tags			Assistant
// @Accept			json
// @Produce		json
// @Success		200		{object}	EntryResponse
// @Failure		400		{object}	EntryResponse
// @Failure		422		{object}	EntryResponse
// @Failure		503		{object}	EntryResponse
// @Param			entry	body		EntryRequest	true	"Entry"
// @Router			/v1/assistant/entries [post]
func (co Controller) ParseEntry(c *gin.Context) {
	var request EntryRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), EntryResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), EntryResponse{
			Error: &e,
		})
		return
	}

	entry, err := l.ParseEntry(c.Request.Context(), request.Text)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), EntryResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Data: &Entry{
		Entry: entry,
		Links: EntryLinks{
			Create: c.GetString(string(models.DBContextURL)) + "/v1/transactions",
		},
	}})
}

// @Summary		Get chat
// @Description	Returns the chat history of the current session
// @Tags			Assistant
// @Produce		json
// @Success		200	{object}	ChatResponse
// @Failure		500	{object}	ChatResponse
// @Router			/v1/assistant/chat [get]
func (co Controller) GetChat(c *gin.Context) {
	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ChatResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Data: l.ChatHistory()})
}

// @Summary		Ask
// @Description	Answers a question about the owner's finances. The answer is based on the month given, or the current month.
// @Tags			Assistant
// @Accept			json
// @Produce		json
// @Success		200			{object}	MessageResponse
// @Failure		400			{object}	MessageResponse
// @Failure		503			{object}	MessageResponse
// @Param			month		query		string		false	"The month in YYYY-MM format"
// @Param			question	body		Question	true	"Question"
// @Router			/v1/assistant/chat [post]
func (co Controller) Ask(c *gin.Context) {
	var query QueryMonth
	if err := c.BindQuery(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, MessageResponse{
			Error: &e,
		})
		return
	}

	var question Question
	if err := httputil.BindData(c, &question); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MessageResponse{
			Error: &e,
		})
		return
	}

	if strings.TrimSpace(question.Message) == "" {
		e := errEmptyText.Error()
		c.JSON(http.StatusBadRequest, MessageResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MessageResponse{
			Error: &e,
		})
		return
	}

	month := query.Month
	if month.IsZero() {
		month = types.MonthOf(l.Now())
	}

	reply, err := l.Ask(c.Request.Context(), strings.TrimSpace(question.Message), month)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MessageResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Data: &reply})
}

// @Summary		Clear chat
// @Description	Deletes the chat history
// @Tags			Assistant
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/v1/assistant/chat [delete]
func (co Controller) ClearChat(c *gin.Context) {
	l, err := co.ledger(c)
	if err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	l.ClearChat()
	c.Status(http.StatusNoContent)
}
