package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
)

// LocationsService covers the location operations exposed over HTTP.
type LocationsService interface {
	Create(ctx context.Context, city, street, house string) (*models.Location, error)
	List(ctx context.Context, city string, limit, offset int) ([]models.Location, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
}

type LocationHandler struct {
	locations LocationsService
}

func NewLocationHandler(locations LocationsService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) List(c echo.Context) error {
	p, err := parsePageParams(c)
	if err != nil {
		return httpError(err)
	}

	items, total, err := h.locations.List(c.Request().Context(), c.QueryParam("city"), p.limit(), p.offset())
	if err != nil {
		return httpError(err)
	}

	resp := make([]locationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toLocationResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, newPageResponse(resp, total, p))
}

func (h *LocationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return httpError(common.ErrorNotFound)
	}

	location, err := h.locations.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toLocationResponse(location))
}

func (h *LocationHandler) Create(c echo.Context) error {
	var req createLocationRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if err := req.validate(); err != nil {
		return httpError(err)
	}

	location, err := h.locations.Create(c.Request().Context(), req.City, req.Street, req.House)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, toLocationResponse(location))
}
