package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
)

type CategoryHandler struct {
	Categories *service.CategoryService
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	Status      string `json:"status"`
}

func (r categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		ParentID:    r.ParentID,
		Status:      r.Status,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	page, err := h.Categories.List(c.Request().Context(), pageParams(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Categories", page)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	category, err := h.Categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Category", category)
}

func (h *CategoryHandler) Parents(c echo.Context) error {
	categories, err := h.Categories.Parents(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Parent categories", categories)
}

func (h *CategoryHandler) Children(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	categories, err := h.Categories.Descendants(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Child categories", categories)
}

func (h *CategoryHandler) Ancestors(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	categories, err := h.Categories.Ancestors(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Ancestor categories", categories)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	category, err := h.Categories.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return response.Created(c, "Category created", category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	category, err := h.Categories.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return response.Success(c, "Category updated", category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Category deleted", nil)
}
