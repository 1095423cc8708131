package v1

import (
	"fmt"
	"net/http"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/report"
	"github.com/gin-gonic/gin"
)

type MonthLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/months/2024-02"`                     // The month itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?month=2024-02"` // Transactions of the month
	Previous     string `json:"previous" example:"https://example.com/api/v1/months/2024-01"`                 // The month before
	Next         string `json:"next" example:"https://example.com/api/v1/months/2024-03"`                     // The month after
}

type Month struct {
	report.Report
	Links MonthLinks `json:"links"`
}

type MonthResponse struct {
	Data  *Month  `json:"data"`                                                                     // Data for the month
	Error *string `json:"error" example:"\"2024-13\" is not a valid month, use the YYYY-MM format"` // The error, if any occurred
}

// RegisterMonthRoutes registers the routes for months with
// the RouterGroup that is passed.
func (co Controller) RegisterMonthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:month", OptionsMonth)
	r.GET("/:month", co.GetMonth)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Param			month	path	string	true	"The month in YYYY-MM format"
// @Router			/v1/months/{month} [options]
func OptionsMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get month
// @Description	Returns the report of a month. The automatic salary is booked first if it is due.
// @Tags			Months
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	MonthResponse
// @Failure		500		{object}	MonthResponse
// @Param			month	path		string	true	"The month in YYYY-MM format"
// @Router			/v1/months/{month} [get]
func (co Controller) GetMonth(c *gin.Context) {
	var uri URIMonth
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MonthResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MonthResponse{
			Error: &e,
		})
		return
	}

	r, err := l.Report(c.Request.Context(), uri.Month)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), MonthResponse{
			Error: &e,
		})
		return
	}

	url := c.GetString(string(models.DBContextURL))
	data := Month{
		Report: r,
		Links: MonthLinks{
			Self:         fmt.Sprintf("%s/v1/months/%s", url, uri.Month),
			Transactions: fmt.Sprintf("%s/v1/transactions?month=%s", url, uri.Month),
			Previous:     fmt.Sprintf("%s/v1/months/%s", url, uri.Month.AddDate(0, -1)),
			Next:         fmt.Sprintf("%s/v1/months/%s", url, uri.Month.AddDate(0, 1)),
		},
	}

	c.JSON(http.StatusOK, MonthResponse{Data: &data})
}
