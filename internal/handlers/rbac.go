package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
)

type RoleHandler struct {
	Roles *service.RoleService
}

type roleRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permission_ids"`
}

func (h *RoleHandler) List(c echo.Context) error {
	page, err := h.Roles.List(c.Request().Context(), pageParams(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Roles", page)
}

func (h *RoleHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	role, err := h.Roles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Role", role)
}

func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	role, err := h.Roles.Create(c.Request().Context(), service.RoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return err
	}
	return response.Created(c, "Role created", role)
}

func (h *RoleHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	role, err := h.Roles.Update(c.Request().Context(), id, service.RoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Role updated", role)
}

func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Roles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Role deleted", nil)
}

type PermissionHandler struct {
	Permissions *service.PermissionService
}

type permissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PermissionHandler) List(c echo.Context) error {
	page, err := h.Permissions.List(c.Request().Context(), pageParams(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Permissions", page)
}

func (h *PermissionHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	perm, err := h.Permissions.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Permission", perm)
}

func (h *PermissionHandler) Create(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	perm, err := h.Permissions.Create(c.Request().Context(), service.PermissionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return response.Created(c, "Permission created", perm)
}

func (h *PermissionHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	perm, err := h.Permissions.Update(c.Request().Context(), id, service.PermissionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Permission updated", perm)
}

func (h *PermissionHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Permissions.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Permission deleted", nil)
}
