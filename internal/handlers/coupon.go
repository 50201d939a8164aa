package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
)

type CouponHandler struct {
	Coupons *service.CouponService
}

type couponRequest struct {
	Name                 string    `json:"name"`
	Code                 string    `json:"code"`
	Quantity             uint      `json:"quantity"`
	MinimumPurchasePrice float64   `json:"minimum_purchase_price"`
	Expiry               time.Time `json:"expiry"`
	DiscountType         string    `json:"discount_type"`
	DiscountAmount       float64   `json:"discount_amount"`
	Status               string    `json:"status"`
}

func (r couponRequest) input() service.CouponInput {
	return service.CouponInput{
		Name:                 r.Name,
		Code:                 r.Code,
		Quantity:             r.Quantity,
		MinimumPurchasePrice: r.MinimumPurchasePrice,
		Expiry:               r.Expiry,
		DiscountType:         r.DiscountType,
		DiscountAmount:       r.DiscountAmount,
		Status:               r.Status,
	}
}

func (h *CouponHandler) List(c echo.Context) error {
	page, err := h.Coupons.List(c.Request().Context(), pageParams(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Coupons", page)
}

func (h *CouponHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	coupon, err := h.Coupons.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Coupon", coupon)
}

func (h *CouponHandler) Create(c echo.Context) error {
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	coupon, err := h.Coupons.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return response.Created(c, "Coupon created", coupon)
}

func (h *CouponHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	coupon, err := h.Coupons.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return response.Success(c, "Coupon updated", coupon)
}

func (h *CouponHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Coupons.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Coupon deleted", nil)
}
