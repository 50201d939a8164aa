package repo

import (
	"context"

	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/util"
)

func (r *GormRepo) ListCoupons(ctx context.Context, p util.PageParams) (*util.Page, error) {
	p = p.Normalize("name", "code", "expiry", "status", "created_at")

	q := r.DB.WithContext(ctx).Model(&models.Coupon{})
	if p.Search != "" {
		q = q.Where("name LIKE ? OR code LIKE ?", "%"+p.Search+"%", "%"+p.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var coupons []models.Coupon
	if err := q.Order(p.Order()).Offset(p.Offset()).Limit(p.Limit).Find(&coupons).Error; err != nil {
		return nil, err
	}

	page := util.NewPage(coupons, p, total)
	return &page, nil
}

func (r *GormRepo) FindCouponByID(ctx context.Context, id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB.WithContext(ctx).First(&coupon, id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *GormRepo) FindCouponByName(ctx context.Context, name string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *GormRepo) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	return r.DB.WithContext(ctx).Create(coupon).Error
}

func (r *GormRepo) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	return r.DB.WithContext(ctx).Save(coupon).Error
}

func (r *GormRepo) DeleteCoupon(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Coupon{}, id).Error
}
