package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/util"
)

// FetchRolesAndPermissions resolves the distinct role and permission name
// sets for a user across the assignment tables. Both slices empty means
// the user has no grants at all.
func (r *GormRepo) FetchRolesAndPermissions(ctx context.Context, userID uint) ([]string, []string, error) {
	var rows []struct {
		RoleName       string
		PermissionName *string
	}

	err := r.DB.WithContext(ctx).Raw(`
		SELECT DISTINCT r.name AS role_name, p.name AS permission_name
		FROM users u
		INNER JOIN user_roles ur ON u.id = ur.user_id
		INNER JOIN roles r ON ur.role_id = r.id
		LEFT JOIN role_permissions rp ON r.id = rp.role_id
		LEFT JOIN permissions p ON rp.permission_id = p.id
		WHERE u.id = ?`, userID).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	roleSet := map[string]struct{}{}
	permSet := map[string]struct{}{}
	var roles, perms []string
	for _, row := range rows {
		if _, ok := roleSet[row.RoleName]; !ok {
			roleSet[row.RoleName] = struct{}{}
			roles = append(roles, row.RoleName)
		}
		if row.PermissionName == nil {
			continue
		}
		if _, ok := permSet[*row.PermissionName]; !ok {
			permSet[*row.PermissionName] = struct{}{}
			perms = append(perms, *row.PermissionName)
		}
	}
	return roles, perms, nil
}

func (r *GormRepo) ListRoles(ctx context.Context, p util.PageParams) (*util.Page, error) {
	p = p.Normalize("name", "created_at")

	q := r.DB.WithContext(ctx).Model(&models.Role{})
	if p.Search != "" {
		q = q.Where("name LIKE ?", "%"+p.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var roles []models.Role
	if err := q.Preload("Permissions").
		Order(p.Order()).Offset(p.Offset()).Limit(p.Limit).
		Find(&roles).Error; err != nil {
		return nil, err
	}

	page := util.NewPage(roles, p, total)
	return &page, nil
}

func (r *GormRepo) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts the role and grants the given permissions in one
// transaction.
func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role, permissionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return replaceRolePermissions(tx, role, permissionIDs)
	})
}

func (r *GormRepo) UpdateRole(ctx context.Context, role *models.Role, permissionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		return replaceRolePermissions(tx, role, permissionIDs)
	})
}

func replaceRolePermissions(tx *gorm.DB, role *models.Role, permissionIDs []uint) error {
	if permissionIDs == nil {
		return nil
	}
	var perms []models.Permission
	if len(permissionIDs) > 0 {
		if err := tx.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return err
		}
	}
	return tx.Model(role).Association("Permissions").Replace(perms)
}

func (r *GormRepo) DeleteRole(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := models.Role{ID: id}
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}

func (r *GormRepo) ListPermissions(ctx context.Context, p util.PageParams) (*util.Page, error) {
	p = p.Normalize("name", "created_at")

	q := r.DB.WithContext(ctx).Model(&models.Permission{})
	if p.Search != "" {
		q = q.Where("name LIKE ?", "%"+p.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var perms []models.Permission
	if err := q.Order(p.Order()).Offset(p.Offset()).Limit(p.Limit).Find(&perms).Error; err != nil {
		return nil, err
	}

	page := util.NewPage(perms, p, total)
	return &page, nil
}

func (r *GormRepo) FindPermissionByID(ctx context.Context, id uint) (*models.Permission, error) {
	var perm models.Permission
	if err := r.DB.WithContext(ctx).First(&perm, id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *GormRepo) FindPermissionByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *GormRepo) CreatePermission(ctx context.Context, perm *models.Permission) error {
	return r.DB.WithContext(ctx).Create(perm).Error
}

func (r *GormRepo) UpdatePermission(ctx context.Context, perm *models.Permission) error {
	return r.DB.WithContext(ctx).Save(perm).Error
}

func (r *GormRepo) DeletePermission(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Permission{}, id).Error
	})
}
