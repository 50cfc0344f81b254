package httpapi

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams holds validated pagination query parameters.
type pageParams struct {
	Page int
	Size int
}

func (p pageParams) limit() int  { return p.Size }
func (p pageParams) offset() int { return (p.Page - 1) * p.Size }

// parsePageParams reads page and size from the query string. Page starts at
// 1; size is capped at maxPageSize.
func parsePageParams(c echo.Context) (pageParams, error) {
	p := pageParams{Page: 1, Size: defaultPageSize}

	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return p, fmt.Errorf("%w: page must be a positive integer", common.ErrorValidation)
		}
		p.Page = v
	}

	if raw := c.QueryParam("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxPageSize {
			return p, fmt.Errorf("%w: size must be between 1 and %d", common.ErrorValidation, maxPageSize)
		}
		p.Size = v
	}

	return p, nil
}

// pageResponse is the envelope for every paginated listing.
type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

func newPageResponse[T any](items []T, total int64, p pageParams) pageResponse[T] {
	if items == nil {
		items = []T{}
	}
	pages := total / int64(p.Size)
	if total%int64(p.Size) != 0 {
		pages++
	}
	return pageResponse[T]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: pages,
	}
}
