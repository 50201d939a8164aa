package service

import (
	"context"
	"fmt"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/util"
)

type RoleService struct {
	Repo *repo.GormRepo
}

type RoleInput struct {
	Name          string
	Description   string
	PermissionIDs []uint
}

func (in RoleInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"name": "name is required",
		})
	}
	return nil
}

func (s *RoleService) List(ctx context.Context, p util.PageParams) (*util.Page, error) {
	page, err := s.Repo.ListRoles(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("role list failed", "error", err)
		return nil, apperr.Internal("Error fetching roles", err)
	}
	return page, nil
}

func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.Repo.FindRoleByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Role not found")
		}
		return nil, apperr.Internal("Error fetching role", err)
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := s.Repo.FindRoleByName(ctx, in.Name); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("Role with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error creating role", err)
	}

	role := &models.Role{Name: in.Name, Description: in.Description}
	if err := s.Repo.CreateRole(ctx, role, in.PermissionIDs); err != nil {
		logging.FromContext(ctx).Error("role create failed", "error", err)
		return nil, apperr.Internal("Error creating role", err)
	}
	return s.Get(ctx, role.ID)
}

func (s *RoleService) Update(ctx context.Context, id uint, in RoleInput) (*models.Role, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	role, err := s.Repo.FindRoleByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Role not found")
		}
		return nil, apperr.Internal("Error updating role", err)
	}

	if existing, err := s.Repo.FindRoleByName(ctx, in.Name); err == nil && existing.ID != id {
		return nil, apperr.Conflict(fmt.Sprintf("Role with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error updating role", err)
	}

	role.Name = in.Name
	role.Description = in.Description

	if err := s.Repo.UpdateRole(ctx, role, in.PermissionIDs); err != nil {
		logging.FromContext(ctx).Error("role update failed", "role_id", id, "error", err)
		return nil, apperr.Internal("Error updating role", err)
	}
	return s.Get(ctx, role.ID)
}

func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindRoleByID(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return apperr.NotFound("Role not found")
		}
		return apperr.Internal("Error deleting role", err)
	}

	if err := s.Repo.DeleteRole(ctx, id); err != nil {
		logging.FromContext(ctx).Error("role delete failed", "role_id", id, "error", err)
		return apperr.Internal("Error deleting role", err)
	}
	return nil
}

type PermissionService struct {
	Repo *repo.GormRepo
}

type PermissionInput struct {
	Name        string
	Description string
}

func (in PermissionInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"name": "name is required",
		})
	}
	return nil
}

func (s *PermissionService) List(ctx context.Context, p util.PageParams) (*util.Page, error) {
	page, err := s.Repo.ListPermissions(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("permission list failed", "error", err)
		return nil, apperr.Internal("Error fetching permissions", err)
	}
	return page, nil
}

func (s *PermissionService) Get(ctx context.Context, id uint) (*models.Permission, error) {
	perm, err := s.Repo.FindPermissionByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Permission not found")
		}
		return nil, apperr.Internal("Error fetching permission", err)
	}
	return perm, nil
}

func (s *PermissionService) Create(ctx context.Context, in PermissionInput) (*models.Permission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := s.Repo.FindPermissionByName(ctx, in.Name); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("Permission with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error creating permission", err)
	}

	perm := &models.Permission{Name: in.Name, Description: in.Description}
	if err := s.Repo.CreatePermission(ctx, perm); err != nil {
		logging.FromContext(ctx).Error("permission create failed", "error", err)
		return nil, apperr.Internal("Error creating permission", err)
	}
	return perm, nil
}

func (s *PermissionService) Update(ctx context.Context, id uint, in PermissionInput) (*models.Permission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	perm, err := s.Repo.FindPermissionByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Permission not found")
		}
		return nil, apperr.Internal("Error updating permission", err)
	}

	if existing, err := s.Repo.FindPermissionByName(ctx, in.Name); err == nil && existing.ID != id {
		return nil, apperr.Conflict(fmt.Sprintf("Permission with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error updating permission", err)
	}

	perm.Name = in.Name
	perm.Description = in.Description

	if err := s.Repo.UpdatePermission(ctx, perm); err != nil {
		logging.FromContext(ctx).Error("permission update failed", "permission_id", id, "error", err)
		return nil, apperr.Internal("Error updating permission", err)
	}
	return perm, nil
}

func (s *PermissionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindPermissionByID(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return apperr.NotFound("Permission not found")
		}
		return apperr.Internal("Error deleting permission", err)
	}

	if err := s.Repo.DeletePermission(ctx, id); err != nil {
		logging.FromContext(ctx).Error("permission delete failed", "permission_id", id, "error", err)
		return apperr.Internal("Error deleting permission", err)
	}
	return nil
}
