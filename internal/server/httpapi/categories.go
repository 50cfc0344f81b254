package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
)

// CategoriesService covers the category operations exposed over HTTP.
type CategoriesService interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type CategoryHandler struct {
	categories CategoriesService
}

func NewCategoryHandler(categories CategoriesService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.categories.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]categoryResponse, 0, len(items))
	for _, cat := range items {
		resp = append(resp, categoryResponse{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if err := req.validate(); err != nil {
		return httpError(err)
	}

	category, err := h.categories.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
}
