package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/util"
)

func (r *GormRepo) ListSliders(ctx context.Context, p util.PageParams) (*util.Page, error) {
	p = p.Normalize("title", "status", "created_at")

	q := r.DB.WithContext(ctx).Model(&models.Slider{})
	if p.Search != "" {
		q = q.Where("title LIKE ?", "%"+p.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var sliders []models.Slider
	if err := q.Preload("Images").
		Order(p.Order()).Offset(p.Offset()).Limit(p.Limit).
		Find(&sliders).Error; err != nil {
		return nil, err
	}

	page := util.NewPage(sliders, p, total)
	return &page, nil
}

func (r *GormRepo) FindSliderByID(ctx context.Context, id uint) (*models.Slider, error) {
	var slider models.Slider
	if err := r.DB.WithContext(ctx).Preload("Images").First(&slider, id).Error; err != nil {
		return nil, err
	}
	return &slider, nil
}

// CreateSlider inserts the slider and its image rows together; a failure
// on either rolls back both.
func (r *GormRepo) CreateSlider(ctx context.Context, slider *models.Slider, imageURLs []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(slider).Error; err != nil {
			return err
		}
		return insertSliderImages(tx, slider, imageURLs)
	})
}

func (r *GormRepo) UpdateSlider(ctx context.Context, slider *models.Slider, imageURLs []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(slider).Error; err != nil {
			return err
		}
		if imageURLs == nil {
			return nil
		}
		if err := tx.Where("slider_id = ?", slider.ID).Delete(&models.SliderImage{}).Error; err != nil {
			return err
		}
		return insertSliderImages(tx, slider, imageURLs)
	})
}

func insertSliderImages(tx *gorm.DB, slider *models.Slider, imageURLs []string) error {
	if len(imageURLs) == 0 {
		return nil
	}
	images := make([]models.SliderImage, len(imageURLs))
	for i, url := range imageURLs {
		images[i] = models.SliderImage{SliderID: slider.ID, ImageURL: url}
	}
	if err := tx.Create(&images).Error; err != nil {
		return err
	}
	slider.Images = images
	return nil
}

func (r *GormRepo) DeleteSlider(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slider_id = ?", id).Delete(&models.SliderImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Slider{}, id).Error
	})
}
