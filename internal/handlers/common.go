package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/util"
)

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid id", map[string]string{
			"id": "id must be a positive integer",
		})
	}
	return uint(id), nil
}

func pageParams(c echo.Context) util.PageParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return util.PageParams{
		Page:    page,
		Limit:   limit,
		Search:  c.QueryParam("search"),
		SortBy:  c.QueryParam("sort_by"),
		SortDir: c.QueryParam("sort_dir"),
	}
}
