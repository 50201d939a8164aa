package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
	"github.com/foodorder/food-order-api/internal/util"
)

type SearchHandler struct {
	SearchSvc *service.SearchService
}

func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"q": "query is required",
		})
	}

	p := pageParams(c)
	total, hits, err := h.SearchSvc.Search(c.Request().Context(), query, p)
	if err != nil {
		return err
	}

	page := util.NewPage(hits, p.Normalize(), total)
	return response.Success(c, "Search results", page)
}
