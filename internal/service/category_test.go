package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/config"
	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/repo"
)

func newTestCategories(t *testing.T) *CategoryService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	return &CategoryService{Repo: repo.New(db), Index: &stubIndexer{}}
}

func mustCategory(t *testing.T, svc *CategoryService, name, slug string, parentID *uint) *models.ProductCategory {
	t.Helper()

	category, err := svc.Create(context.Background(), CategoryInput{
		Name: name, Slug: slug, ParentID: parentID, Status: "active",
	})
	require.NoError(t, err)
	return category
}

func TestCategorySlugConflict(t *testing.T) {
	svc := newTestCategories(t)
	ctx := context.Background()

	mustCategory(t, svc, "Food", "food", nil)

	_, err := svc.Create(ctx, CategoryInput{Name: "Food 2", Slug: "food", Status: "active"})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCategoryUnknownParent(t *testing.T) {
	svc := newTestCategories(t)

	missing := uint(999)
	_, err := svc.Create(context.Background(), CategoryInput{
		Name: "Orphan", Slug: "orphan", ParentID: &missing, Status: "active",
	})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCategorySelfParent(t *testing.T) {
	svc := newTestCategories(t)

	category := mustCategory(t, svc, "Food", "food", nil)

	_, err := svc.Update(context.Background(), category.ID, CategoryInput{
		Name: "Food", Slug: "food", ParentID: &category.ID, Status: "active",
	})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCategoryCycleRejected(t *testing.T) {
	svc := newTestCategories(t)
	ctx := context.Background()

	root := mustCategory(t, svc, "Food", "food", nil)
	pizza := mustCategory(t, svc, "Pizza", "pizza", &root.ID)
	vegan := mustCategory(t, svc, "Vegan Pizza", "vegan-pizza", &pizza.ID)

	// Reparenting a category under its own descendant closes a loop.
	_, err := svc.Update(ctx, root.ID, CategoryInput{
		Name: "Food", Slug: "food", ParentID: &pizza.ID, Status: "active",
	})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Update(ctx, root.ID, CategoryInput{
		Name: "Food", Slug: "food", ParentID: &vegan.ID, Status: "active",
	})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Moving a leaf under another branch is still fine.
	_, err = svc.Update(ctx, vegan.ID, CategoryInput{
		Name: "Vegan Pizza", Slug: "vegan-pizza", ParentID: &root.ID, Status: "active",
	})
	require.NoError(t, err)
}

func TestCategoryUpdateUnknownParent(t *testing.T) {
	svc := newTestCategories(t)

	category := mustCategory(t, svc, "Food", "food", nil)

	missing := uint(999)
	_, err := svc.Update(context.Background(), category.ID, CategoryInput{
		Name: "Food", Slug: "food", ParentID: &missing, Status: "active",
	})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCategoryWalksTerminateOnCorruptHierarchy(t *testing.T) {
	svc := newTestCategories(t)
	ctx := context.Background()

	root := mustCategory(t, svc, "Food", "food", nil)
	child := mustCategory(t, svc, "Pizza", "pizza", &root.ID)

	// Force a parent loop directly in storage, bypassing the update guard.
	require.NoError(t, svc.Repo.DB.Model(&models.ProductCategory{}).
		Where("id = ?", root.ID).Update("parent_id", child.ID).Error)

	ancestors, err := svc.Ancestors(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 1)

	descendants, err := svc.Descendants(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, descendants, 1)
}

func TestCategoryHierarchyWalks(t *testing.T) {
	svc := newTestCategories(t)
	ctx := context.Background()

	root := mustCategory(t, svc, "Food", "food", nil)
	pizza := mustCategory(t, svc, "Pizza", "pizza", &root.ID)
	vegan := mustCategory(t, svc, "Vegan Pizza", "vegan-pizza", &pizza.ID)
	mustCategory(t, svc, "Drinks", "drinks", nil)

	parents, err := svc.Parents(ctx)
	require.NoError(t, err)
	require.Len(t, parents, 2)

	descendants, err := svc.Descendants(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, descendants, 2)
	slugs := []string{descendants[0].Slug, descendants[1].Slug}
	require.Contains(t, slugs, "pizza")
	require.Contains(t, slugs, "vegan-pizza")

	ancestors, err := svc.Ancestors(ctx, vegan.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	require.Equal(t, "pizza", ancestors[0].Slug)
	require.Equal(t, "food", ancestors[1].Slug)
}

func TestCategoryDeleteWithChildren(t *testing.T) {
	svc := newTestCategories(t)
	ctx := context.Background()

	root := mustCategory(t, svc, "Food", "food", nil)
	child := mustCategory(t, svc, "Pizza", "pizza", &root.ID)

	err := svc.Delete(ctx, root.ID)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, root.ID))
}
