package service

import (
	"context"
	"fmt"
	"time"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/util"
)

type CouponService struct {
	Repo  *repo.GormRepo
	Index SearchIndexer
}

type CouponInput struct {
	Name                 string
	Code                 string
	Quantity             uint
	MinimumPurchasePrice float64
	Expiry               time.Time
	DiscountType         string
	DiscountAmount       float64
	Status               string
}

func (in CouponInput) validate() error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Code == "" {
		fields["code"] = "code is required"
	}
	switch in.DiscountType {
	case "percentage", "fixed":
	default:
		fields["discount_type"] = "discount_type must be percentage or fixed"
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation failed", fields)
	}
	return nil
}

func couponDocID(id uint) string { return fmt.Sprintf("coupon-%d", id) }

func couponDoc(c *models.Coupon) SearchHit {
	return SearchHit{Kind: "coupon", ID: c.ID, Name: c.Name, Text: c.Code}
}

func (s *CouponService) List(ctx context.Context, p util.PageParams) (*util.Page, error) {
	page, err := s.Repo.ListCoupons(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("coupon list failed", "error", err)
		return nil, apperr.Internal("Error fetching coupons", err)
	}
	return page, nil
}

func (s *CouponService) Get(ctx context.Context, id uint) (*models.Coupon, error) {
	coupon, err := s.Repo.FindCouponByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Coupon not found")
		}
		return nil, apperr.Internal("Error fetching coupon", err)
	}
	return coupon, nil
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := s.Repo.FindCouponByName(ctx, in.Name); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("Coupon with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error creating coupon", err)
	}

	coupon := &models.Coupon{
		Name:                 in.Name,
		Code:                 in.Code,
		Quantity:             in.Quantity,
		MinimumPurchasePrice: in.MinimumPurchasePrice,
		Expiry:               in.Expiry,
		DiscountType:         in.DiscountType,
		DiscountAmount:       in.DiscountAmount,
		Status:               in.Status,
	}
	if err := s.Repo.CreateCoupon(ctx, coupon); err != nil {
		logging.FromContext(ctx).Error("coupon create failed", "error", err)
		return nil, apperr.Internal("Error creating coupon", err)
	}

	indexDoc(ctx, s.Index, couponDocID(coupon.ID), couponDoc(coupon))
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id uint, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	coupon, err := s.Repo.FindCouponByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Coupon not found")
		}
		return nil, apperr.Internal("Error updating coupon", err)
	}

	if existing, err := s.Repo.FindCouponByName(ctx, in.Name); err == nil && existing.ID != id {
		return nil, apperr.Conflict(fmt.Sprintf("Coupon with name %q already exists", in.Name))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Error updating coupon", err)
	}

	coupon.Name = in.Name
	coupon.Code = in.Code
	coupon.Quantity = in.Quantity
	coupon.MinimumPurchasePrice = in.MinimumPurchasePrice
	coupon.Expiry = in.Expiry
	coupon.DiscountType = in.DiscountType
	coupon.DiscountAmount = in.DiscountAmount
	coupon.Status = in.Status

	if err := s.Repo.UpdateCoupon(ctx, coupon); err != nil {
		logging.FromContext(ctx).Error("coupon update failed", "coupon_id", id, "error", err)
		return nil, apperr.Internal("Error updating coupon", err)
	}

	indexDoc(ctx, s.Index, couponDocID(coupon.ID), couponDoc(coupon))
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindCouponByID(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return apperr.NotFound("Coupon not found")
		}
		return apperr.Internal("Error deleting coupon", err)
	}

	if err := s.Repo.DeleteCoupon(ctx, id); err != nil {
		logging.FromContext(ctx).Error("coupon delete failed", "coupon_id", id, "error", err)
		return apperr.Internal("Error deleting coupon", err)
	}

	deleteDoc(ctx, s.Index, couponDocID(id))
	return nil
}
