package v1

import (
	"net/http"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SalaryEditable struct {
	Enabled bool            `json:"enabled" example:"true"` // Book the salary automatically
	Amount  decimal.Decimal `json:"amount" example:"2500"`  // Monthly amount
	Day     int             `json:"day" example:"5"`        // Day of the month, clamped to the last day of short months
}

type SalaryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/settings/salary"`
}

type Salary struct {
	SalaryEditable
	Links SalaryLinks `json:"links"`
}

func newSalary(c *gin.Context, settings models.Settings) Salary {
	return Salary{
		SalaryEditable: SalaryEditable{
			Enabled: settings.SalaryEnabled,
			Amount:  settings.SalaryAmount,
			Day:     settings.SalaryDay,
		},
		Links: SalaryLinks{
			Self: c.GetString(string(models.DBContextURL)) + "/v1/settings/salary",
		},
	}
}

type SalaryResponse struct {
	Data  *Salary `json:"data"`                                                    // The salary settings
	Error *string `json:"error" example:"the salary day must be between 1 and 31"` // The error, if any occurred
}

// RegisterSettingsRoutes registers the routes for settings with
// the RouterGroup that is passed.
func (co Controller) RegisterSettingsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/salary", OptionsSalary)
	r.GET("/salary", co.GetSalary)
	r.PUT("/salary", co.UpdateSalary)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settings
// @Success		204
// @Router			/v1/settings/salary [options]
func OptionsSalary(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Get salary settings
// @Description	Returns the automatic salary settings
// @Tags			Settings
// @Produce		json
// @Success		200	{object}	SalaryResponse
// @Failure		500	{object}	SalaryResponse
// @Router			/v1/settings/salary [get]
func (co Controller) GetSalary(c *gin.Context) {
	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SalaryResponse{
			Error: &e,
		})
		return
	}

	data := newSalary(c, l.Salary())
	c.JSON(http.StatusOK, SalaryResponse{Data: &data})
}

// @Summary		Update salary settings
// @Description	Replaces the automatic salary settings. If the salary of the current month is now due, it is booked.
// @Tags			Settings
// @Accept			json
// @Produce		json
// @Success		200		{object}	SalaryResponse
// @Failure		400		{object}	SalaryResponse
// @Failure		500		{object}	SalaryResponse
// @Param			salary	body		SalaryEditable	true	"Salary"
// @Router			/v1/settings/salary [put]
func (co Controller) UpdateSalary(c *gin.Context) {
	var editable SalaryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SalaryResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SalaryResponse{
			Error: &e,
		})
		return
	}

	settings, err := l.SaveSalary(c.Request.Context(), editable.Enabled, editable.Amount, editable.Day)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SalaryResponse{
			Error: &e,
		})
		return
	}

	data := newSalary(c, settings)
	c.JSON(http.StatusOK, SalaryResponse{Data: &data})
}
