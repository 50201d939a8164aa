package repo

import (
	"context"

	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/util"
)

func (r *GormRepo) ListCategories(ctx context.Context, p util.PageParams) (*util.Page, error) {
	p = p.Normalize("name", "slug", "status", "created_at")

	q := r.DB.WithContext(ctx).Model(&models.ProductCategory{})
	if p.Search != "" {
		q = q.Where("name LIKE ?", "%"+p.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var categories []models.ProductCategory
	if err := q.Order(p.Order()).Offset(p.Offset()).Limit(p.Limit).Find(&categories).Error; err != nil {
		return nil, err
	}

	page := util.NewPage(categories, p, total)
	return &page, nil
}

func (r *GormRepo) FindCategoryByID(ctx context.Context, id uint) (*models.ProductCategory, error) {
	var category models.ProductCategory
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) FindCategoryBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	var category models.ProductCategory
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ParentCategories returns top-level categories only.
func (r *GormRepo) ParentCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	if err := r.DB.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) ChildCategories(ctx context.Context, parentID uint) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	if err := r.DB.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.ProductCategory) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) UpdateCategory(ctx context.Context, category *models.ProductCategory) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.ProductCategory{}, id).Error
}
