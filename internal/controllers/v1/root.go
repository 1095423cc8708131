package v1

import (
	"net/http"

	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Auth         string `json:"auth" example:"https://example.com/api/v1/auth"`                 // URL of the authentication endpoints
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"` // URL of Transaction collection endpoint
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`     // URL of Category collection endpoint
	Salary       string `json:"salary" example:"https://example.com/api/v1/settings/salary"`    // URL of the salary settings
	Months       string `json:"months" example:"https://example.com/api/v1/months"`             // URL of Month endpoint
	Assistant    string `json:"assistant" example:"https://example.com/api/v1/assistant"`       // URL of the assistant endpoints
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Auth:         url + "/v1/auth",
			Transactions: url + "/v1/transactions",
			Categories:   url + "/v1/categories",
			Salary:       url + "/v1/settings/salary",
			Months:       url + "/v1/months",
			Assistant:    url + "/v1/assistant",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
