package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/config"
	"github.com/foodorder/food-order-api/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One shared connection: every :memory: connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.SeedRoles(db))

	return New(db)
}

func createTestUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()

	user := &models.User{Name: "Test User", Email: email, PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), user, "customer"))
	return user
}

func TestCreateUserAssignsDefaultRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := createTestUser(t, r, "a@example.com")

	loaded, err := r.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	require.Equal(t, "customer", loaded.Roles[0].Name)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestUser(t, r, "a@example.com")

	dup := &models.User{Name: "Other", Email: "a@example.com", PasswordHash: "y"}
	err := r.CreateUser(ctx, dup, "customer")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestFindUserByEmailNotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.FindUserByEmail(context.Background(), "nobody@example.com")
	require.True(t, IsNotFound(err))
}

func TestFetchRolesAndPermissions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	perm := &models.Permission{Name: "coupons.manage"}
	require.NoError(t, r.CreatePermission(ctx, perm))

	role := &models.Role{Name: "manager"}
	require.NoError(t, r.CreateRole(ctx, role, []uint{perm.ID}))

	user := createTestUser(t, r, "m@example.com")
	require.NoError(t, r.DB.Model(user).Association("Roles").Append(role))

	roles, perms, err := r.FetchRolesAndPermissions(ctx, user.ID)
	require.NoError(t, err)
	require.Contains(t, roles, "customer")
	require.Contains(t, roles, "manager")
	require.Contains(t, perms, "coupons.manage")
}

func TestFetchRolesAndPermissionsNoRoles(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := &models.User{Name: "Orphan", Email: "o@example.com", PasswordHash: "x"}
	require.NoError(t, r.DB.Create(user).Error)

	roles, perms, err := r.FetchRolesAndPermissions(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, roles)
	require.Empty(t, perms)
}

func TestRoleCRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p1 := &models.Permission{Name: "sliders.manage"}
	p2 := &models.Permission{Name: "coupons.manage"}
	require.NoError(t, r.CreatePermission(ctx, p1))
	require.NoError(t, r.CreatePermission(ctx, p2))

	role := &models.Role{Name: "editor", Description: "content editor"}
	require.NoError(t, r.CreateRole(ctx, role, []uint{p1.ID}))

	loaded, err := r.FindRoleByID(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Permissions, 1)
	require.Equal(t, "sliders.manage", loaded.Permissions[0].Name)

	loaded.Description = "updated"
	require.NoError(t, r.UpdateRole(ctx, loaded, []uint{p2.ID}))

	reloaded, err := r.FindRoleByID(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, "updated", reloaded.Description)
	require.Len(t, reloaded.Permissions, 1)
	require.Equal(t, "coupons.manage", reloaded.Permissions[0].Name)

	require.NoError(t, r.DeleteRole(ctx, role.ID))
	_, err = r.FindRoleByID(ctx, role.ID)
	require.True(t, IsNotFound(err))
}

func TestDeleteRoleDetachesUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	role := &models.Role{Name: "temp"}
	require.NoError(t, r.CreateRole(ctx, role, nil))

	user := createTestUser(t, r, "t@example.com")
	require.NoError(t, r.DB.Model(user).Association("Roles").Append(role))

	require.NoError(t, r.DeleteRole(ctx, role.ID))

	loaded, err := r.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	require.Equal(t, "customer", loaded.Roles[0].Name)
}

func TestCategoryHierarchy(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	root := &models.ProductCategory{Name: "Food", Slug: "food", Status: "active"}
	require.NoError(t, r.CreateCategory(ctx, root))

	child := &models.ProductCategory{Name: "Pizza", Slug: "pizza", ParentID: &root.ID, Status: "active"}
	require.NoError(t, r.CreateCategory(ctx, child))

	parents, err := r.ParentCategories(ctx)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	require.Equal(t, "food", parents[0].Slug)

	children, err := r.ChildCategories(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "pizza", children[0].Slug)
}

func TestSliderImagesReplacedOnUpdate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	slider := &models.Slider{Title: "Summer", Status: "active", CreatedBy: 1}
	require.NoError(t, r.CreateSlider(ctx, slider, []string{"/img/a.png", "/img/b.png"}))

	loaded, err := r.FindSliderByID(ctx, slider.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Images, 2)

	loaded.Title = "Autumn"
	require.NoError(t, r.UpdateSlider(ctx, loaded, []string{"/img/c.png"}))

	reloaded, err := r.FindSliderByID(ctx, slider.ID)
	require.NoError(t, err)
	require.Equal(t, "Autumn", reloaded.Title)
	require.Len(t, reloaded.Images, 1)
	require.Equal(t, "/img/c.png", reloaded.Images[0].ImageURL)
}
