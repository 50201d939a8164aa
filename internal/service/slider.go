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

type SliderService struct {
	Repo  *repo.GormRepo
	Index SearchIndexer
}

type SliderInput struct {
	Offer       string
	Title       string
	Subtitle    string
	Description string
	ButtonLink  string
	Status      string
	CreatedBy   uint
	ImageURLs   []string
}

func (in SliderInput) validate() error {
	if in.Title == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"title": "title is required",
		})
	}
	return nil
}

func sliderDocID(id uint) string { return fmt.Sprintf("slider-%d", id) }

func sliderDoc(s *models.Slider) SearchHit {
	return SearchHit{Kind: "slider", ID: s.ID, Name: s.Title, Text: s.Description}
}

func (s *SliderService) List(ctx context.Context, p util.PageParams) (*util.Page, error) {
	page, err := s.Repo.ListSliders(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("slider list failed", "error", err)
		return nil, apperr.Internal("Error fetching sliders", err)
	}
	return page, nil
}

func (s *SliderService) Get(ctx context.Context, id uint) (*models.Slider, error) {
	slider, err := s.Repo.FindSliderByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Slider not found")
		}
		return nil, apperr.Internal("Error fetching slider", err)
	}
	return slider, nil
}

func (s *SliderService) Create(ctx context.Context, in SliderInput) (*models.Slider, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slider := &models.Slider{
		Offer:       in.Offer,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		ButtonLink:  in.ButtonLink,
		Status:      in.Status,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.Repo.CreateSlider(ctx, slider, in.ImageURLs); err != nil {
		logging.FromContext(ctx).Error("slider create failed", "error", err)
		return nil, apperr.Internal("Error creating slider", err)
	}

	indexDoc(ctx, s.Index, sliderDocID(slider.ID), sliderDoc(slider))
	return slider, nil
}

func (s *SliderService) Update(ctx context.Context, id uint, in SliderInput) (*models.Slider, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slider, err := s.Repo.FindSliderByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("Slider with ID %d not found", id))
		}
		return nil, apperr.Internal("Error updating slider", err)
	}

	slider.Offer = in.Offer
	slider.Title = in.Title
	slider.Subtitle = in.Subtitle
	slider.Description = in.Description
	slider.ButtonLink = in.ButtonLink
	slider.Status = in.Status

	if err := s.Repo.UpdateSlider(ctx, slider, in.ImageURLs); err != nil {
		logging.FromContext(ctx).Error("slider update failed", "slider_id", id, "error", err)
		return nil, apperr.Internal("Error updating slider", err)
	}

	indexDoc(ctx, s.Index, sliderDocID(slider.ID), sliderDoc(slider))
	return slider, nil
}

func (s *SliderService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindSliderByID(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return apperr.NotFound(fmt.Sprintf("Slider with ID %d not found", id))
		}
		return apperr.Internal("Error deleting slider", err)
	}

	if err := s.Repo.DeleteSlider(ctx, id); err != nil {
		logging.FromContext(ctx).Error("slider delete failed", "slider_id", id, "error", err)
		return apperr.Internal("Error deleting slider", err)
	}

	deleteDoc(ctx, s.Index, sliderDocID(id))
	return nil
}
