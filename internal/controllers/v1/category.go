package v1

import (
	"fmt"
	"net/http"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type CategoryEditable struct {
	Name string `json:"name" example:"Pets"` // Name of the category, unique per owner
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"` // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=Pets"`              // Transactions of this category
}

type Category struct {
	models.Category
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		Category: model,
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.Name),
		},
	}
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                             // Data for the category
	Error *string   `json:"error" example:"the category name must be unique"` // The error, if any occurred
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`                                                                // List of categories
	Error *string    `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCategoryList)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", OptionsCategoryDetail)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [options]
func OptionsCategoryDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Get categories
// @Description	Returns the categories of the signed-in owner. Owners without categories get the default set.
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Failure		500	{object}	CategoryListResponse
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CategoryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Category, 0)
	for _, category := range l.Categories() {
		data = append(data, newCategory(c, category))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// @Summary		Create category
// @Description	Creates a new category
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		409			{object}	CategoryResponse
// @Failure		500			{object}	CategoryResponse
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CategoryResponse{
			Error: &e,
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CategoryResponse{
			Error: &e,
		})
		return
	}

	category, err := l.AddCategory(c.Request.Context(), editable.Name)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CategoryResponse{
			Error: &e,
		})
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusCreated, CategoryResponse{Data: &data})
}

// @Summary		Delete category
// @Description	Deletes a category. Transactions keep the category name.
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	l, err := co.ledger(c)
	if err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := l.DeleteCategory(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(httperror.Status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
