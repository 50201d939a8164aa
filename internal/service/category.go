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

type CategoryService struct {
	Repo  *repo.GormRepo
	Index SearchIndexer
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uint
	Status      string
}

func (in CategoryInput) validate() error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Slug == "" {
		fields["slug"] = "slug is required"
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation failed", fields)
	}
	return nil
}

func categoryDocID(id uint) string { return fmt.Sprintf("category-%d", id) }

func categoryDoc(c *models.ProductCategory) SearchHit {
	return SearchHit{Kind: "category", ID: c.ID, Name: c.Name, Text: c.Description}
}

func (s *CategoryService) List(ctx context.Context, p util.PageParams) (*util.Page, error) {
	page, err := s.Repo.ListCategories(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("category list failed", "error", err)
		return nil, apperr.Internal("Failed to retrieve categories", err)
	}
	return page, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.ProductCategory, error) {
	category, err := s.Repo.FindCategoryByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, apperr.Internal("Failed to retrieve category", err)
	}
	return category, nil
}

func (s *CategoryService) Parents(ctx context.Context) ([]models.ProductCategory, error) {
	categories, err := s.Repo.ParentCategories(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve parent categories", err)
	}
	return categories, nil
}

// Descendants walks the hierarchy breadth-first and returns every
// category below id.
func (s *CategoryService) Descendants(ctx context.Context, id uint) ([]models.ProductCategory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	var out []models.ProductCategory
	seen := map[uint]bool{id: true}
	queue := []uint{id}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		children, err := s.Repo.ChildCategories(ctx, parentID)
		if err != nil {
			return nil, apperr.Internal("Failed to retrieve child categories", err)
		}
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out, nil
}

// Ancestors returns the chain of parents from id up to the root,
// nearest first.
func (s *CategoryService) Ancestors(ctx context.Context, id uint) ([]models.ProductCategory, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var out []models.ProductCategory
	seen := map[uint]bool{category.ID: true}
	for category.ParentID != nil && !seen[*category.ParentID] {
		parent, err := s.Repo.FindCategoryByID(ctx, *category.ParentID)
		if err != nil {
			if repo.IsNotFound(err) {
				break
			}
			return nil, apperr.Internal("Failed to retrieve parent categories", err)
		}
		seen[parent.ID] = true
		out = append(out, *parent)
		category = parent
	}
	return out, nil
}

// wouldCreateCycle reports whether making parentID the parent of id would
// close a loop, by walking parentID's ancestor chain.
func (s *CategoryService) wouldCreateCycle(ctx context.Context, id, parentID uint) (bool, error) {
	seen := map[uint]bool{}
	current := &parentID
	for current != nil && !seen[*current] {
		if *current == id {
			return true, nil
		}
		seen[*current] = true

		parent, err := s.Repo.FindCategoryByID(ctx, *current)
		if err != nil {
			if repo.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		current = parent.ParentID
	}
	return false, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.ProductCategory, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := s.Repo.FindCategoryBySlug(ctx, in.Slug); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("Category with slug %q already exists", in.Slug))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Failed to create category", err)
	}

	if in.ParentID != nil {
		if _, err := s.Repo.FindCategoryByID(ctx, *in.ParentID); err != nil {
			if repo.IsNotFound(err) {
				return nil, apperr.NotFound("Parent category not found")
			}
			return nil, apperr.Internal("Failed to create category", err)
		}
	}

	category := &models.ProductCategory{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		Status:      in.Status,
	}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		logging.FromContext(ctx).Error("category create failed", "error", err)
		return nil, apperr.Internal("Failed to create category", err)
	}

	indexDoc(ctx, s.Index, categoryDocID(category.ID), categoryDoc(category))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.ProductCategory, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	category, err := s.Repo.FindCategoryByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, apperr.Internal("Failed to update category", err)
	}

	if existing, err := s.Repo.FindCategoryBySlug(ctx, in.Slug); err == nil && existing.ID != id {
		return nil, apperr.Conflict(fmt.Sprintf("Category with slug %q already exists", in.Slug))
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, apperr.Internal("Failed to update category", err)
	}

	if in.ParentID != nil {
		if *in.ParentID == id {
			return nil, apperr.Validation("Validation failed", map[string]string{
				"parent_id": "category cannot be its own parent",
			})
		}
		if _, err := s.Repo.FindCategoryByID(ctx, *in.ParentID); err != nil {
			if repo.IsNotFound(err) {
				return nil, apperr.NotFound("Parent category not found")
			}
			return nil, apperr.Internal("Failed to update category", err)
		}
		cycle, err := s.wouldCreateCycle(ctx, id, *in.ParentID)
		if err != nil {
			return nil, apperr.Internal("Failed to update category", err)
		}
		if cycle {
			return nil, apperr.Conflict("Category cannot be moved under its own descendant")
		}
	}

	category.Name = in.Name
	category.Slug = in.Slug
	category.Description = in.Description
	category.ParentID = in.ParentID
	category.Status = in.Status

	if err := s.Repo.UpdateCategory(ctx, category); err != nil {
		logging.FromContext(ctx).Error("category update failed", "category_id", id, "error", err)
		return nil, apperr.Internal("Failed to update category", err)
	}

	indexDoc(ctx, s.Index, categoryDocID(category.ID), categoryDoc(category))
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindCategoryByID(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return apperr.NotFound("Category not found")
		}
		return apperr.Internal("Failed to delete category", err)
	}

	children, err := s.Repo.ChildCategories(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete category", err)
	}
	if len(children) > 0 {
		return apperr.Conflict("Category has child categories")
	}

	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		logging.FromContext(ctx).Error("category delete failed", "category_id", id, "error", err)
		return apperr.Internal("Failed to delete category", err)
	}

	deleteDoc(ctx, s.Index, categoryDocID(id))
	return nil
}
