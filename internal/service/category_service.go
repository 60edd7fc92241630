package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/ws"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

// maxListingCategories caps how many categories may be flagged as listing
// at the same time.
const maxListingCategories = 2

type CreateCategoryInput struct {
	CategoryName  string
	CategoryImage string
	Status        *int
	IsListing     *bool
}

type UpdateCategoryInput struct {
	CategoryName  *string
	CategoryImage *string
	Status        *int
	IsListing     *bool
}

type CategoryService interface {
	Create(input CreateCategoryInput) (*model.Category, error)
	Update(id uuid.UUID, input UpdateCategoryInput) (*model.Category, error)
	Get(id uuid.UUID) (*model.Category, error)
	List(q repository.ListQuery, isListing *bool) ([]model.Category, repository.PageMeta, error)
	Delete(id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	files      storage.FileStore
	hub        *ws.Hub
	log        *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, files storage.FileStore, hub *ws.Hub, log *zap.Logger) CategoryService {
	return &categoryService{categories: categories, files: files, hub: hub, log: log}
}

func (s *categoryService) Create(input CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.CategoryName)
	if name == "" {
		return nil, apperr.Validation("category_name is required")
	}

	if _, err := s.categories.FindByNameCI(name, nil); err == nil {
		return nil, apperr.Conflict("category_name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unexpected(err)
	}

	status := model.StatusActive
	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		status = *input.Status
	}

	isListing := input.IsListing != nil && *input.IsListing
	if isListing {
		count, err := s.categories.CountListing(nil)
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		if count >= maxListingCategories {
			return nil, apperr.Validation("only %d categories can be marked as listing", maxListingCategories)
		}
	}

	category := &model.Category{
		CategoryName:  name,
		CategoryImage: input.CategoryImage,
		Status:        status,
		IsListing:     isListing,
	}
	if err := s.categories.Create(category); err != nil {
		return nil, translateStoreErr(err)
	}

	s.hub.Notify("category_created", "category", category.ID.String(), category.CategoryName)
	return category, nil
}

func (s *categoryService) Update(id uuid.UUID, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	oldImage := category.CategoryImage

	if input.CategoryName != nil {
		name := strings.TrimSpace(*input.CategoryName)
		if name == "" {
			return nil, apperr.Validation("category_name cannot be empty")
		}
		if _, err := s.categories.FindByNameCI(name, &id); err == nil {
			return nil, apperr.Conflict("category_name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unexpected(err)
		}
		category.CategoryName = name
	}

	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		category.Status = *input.Status
	}

	if input.IsListing != nil {
		if *input.IsListing {
			count, err := s.categories.CountListing(&id)
			if err != nil {
				return nil, apperr.Unexpected(err)
			}
			if count >= maxListingCategories {
				return nil, apperr.Validation("only %d categories can be marked as listing", maxListingCategories)
			}
		}
		category.IsListing = *input.IsListing
	}

	if input.CategoryImage != nil {
		category.CategoryImage = *input.CategoryImage
	}

	if err := s.categories.Update(category); err != nil {
		return nil, translateStoreErr(err)
	}

	if input.CategoryImage != nil && oldImage != "" && oldImage != category.CategoryImage {
		s.removeFile(oldImage)
	}

	s.hub.Notify("category_updated", "category", category.ID.String(), category.CategoryName)
	return category, nil
}

func (s *categoryService) Get(id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	return category, nil
}

func (s *categoryService) List(q repository.ListQuery, isListing *bool) ([]model.Category, repository.PageMeta, error) {
	categories, total, err := s.categories.List(q, isListing)
	if err != nil {
		return nil, repository.PageMeta{}, apperr.Unexpected(err)
	}
	q.Normalize()
	return categories, repository.NewPageMeta(q, total), nil
}

// Delete removes the category and its image. Children are left in place;
// see DESIGN.md for the rationale.
func (s *categoryService) Delete(id uuid.UUID) error {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Unexpected(err)
	}

	if err := s.categories.Delete(id); err != nil {
		return translateStoreErr(err)
	}

	s.removeFile(category.CategoryImage)
	s.hub.Notify("category_deleted", "category", id.String(), category.CategoryName)
	return nil
}

func (s *categoryService) removeFile(ref string) {
	if ref == "" {
		return
	}
	if err := s.files.Delete(ref); err != nil {
		s.log.Warn("failed to delete upload", zap.String("ref", ref), zap.Error(err))
	}
}
