package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	mwauth "github.com/foodorder/food-order-api/internal/middleware/auth"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
)

type SliderHandler struct {
	Sliders *service.SliderService
}

type sliderRequest struct {
	Offer       string   `json:"offer"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	ButtonLink  string   `json:"button_link"`
	Status      string   `json:"status"`
	ImageURLs   []string `json:"image_urls"`
}

func (r sliderRequest) input(createdBy uint) service.SliderInput {
	return service.SliderInput{
		Offer:       r.Offer,
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		Description: r.Description,
		ButtonLink:  r.ButtonLink,
		Status:      r.Status,
		CreatedBy:   createdBy,
		ImageURLs:   r.ImageURLs,
	}
}

func (h *SliderHandler) List(c echo.Context) error {
	page, err := h.Sliders.List(c.Request().Context(), pageParams(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Sliders", page)
}

func (h *SliderHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	slider, err := h.Sliders.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Slider", slider)
}

func (h *SliderHandler) Create(c echo.Context) error {
	var req sliderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	userID, _ := mwauth.SubjectID(c)

	slider, err := h.Sliders.Create(c.Request().Context(), req.input(userID))
	if err != nil {
		return err
	}
	return response.Created(c, "Slider created", slider)
}

func (h *SliderHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req sliderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}
	userID, _ := mwauth.SubjectID(c)

	slider, err := h.Sliders.Update(c.Request().Context(), id, req.input(userID))
	if err != nil {
		return err
	}
	return response.Success(c, "Slider updated", slider)
}

func (h *SliderHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Sliders.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Slider deleted", nil)
}
