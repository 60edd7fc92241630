package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

type CreateInnerCategoryInput struct {
	InnerCategoryName string
	CategoryID        uuid.UUID
	SubCategoryID     uuid.UUID
	Status            *int
}

type UpdateInnerCategoryInput struct {
	InnerCategoryName *string
	CategoryID        *uuid.UUID
	SubCategoryID     *uuid.UUID
	Status            *int
}

type InnerCategoryService interface {
	Create(input CreateInnerCategoryInput) (*model.InnerCategory, error)
	Update(id uuid.UUID, input UpdateInnerCategoryInput) (*model.InnerCategory, error)
	Get(id uuid.UUID) (*model.InnerCategory, error)
	List(q repository.ListQuery, categoryID, subCategoryID *uuid.UUID) ([]model.InnerCategory, repository.PageMeta, error)
	Delete(id uuid.UUID) error
}

type innerCategoryService struct {
	inners     repository.InnerCategoryRepository
	subs       repository.SubCategoryRepository
	categories repository.CategoryRepository
}

func NewInnerCategoryService(inners repository.InnerCategoryRepository, subs repository.SubCategoryRepository, categories repository.CategoryRepository) InnerCategoryService {
	return &innerCategoryService{inners: inners, subs: subs, categories: categories}
}

// checkChain walks up the parent chain: the sub-category must exist and must
// belong to the supplied category.
func (s *innerCategoryService) checkChain(categoryID, subCategoryID uuid.UUID) error {
	if categoryID == uuid.Nil || subCategoryID == uuid.Nil {
		return apperr.Validation("category_id and sub_category_id are required")
	}
	if _, err := s.categories.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Unexpected(err)
	}
	sub, err := s.subs.FindByID(subCategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("sub category not found")
		}
		return apperr.Unexpected(err)
	}
	if sub.CategoryID != categoryID {
		return apperr.Validation("sub_category does not belong to the supplied category")
	}
	return nil
}

func (s *innerCategoryService) Create(input CreateInnerCategoryInput) (*model.InnerCategory, error) {
	name := strings.TrimSpace(input.InnerCategoryName)
	if name == "" {
		return nil, apperr.Validation("inner_category_name is required")
	}
	if err := s.checkChain(input.CategoryID, input.SubCategoryID); err != nil {
		return nil, err
	}

	if _, err := s.inners.FindDuplicate(input.CategoryID, input.SubCategoryID, name, nil); err == nil {
		return nil, apperr.Conflict("inner_category_name already exists in this sub category")
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

	inner := &model.InnerCategory{
		InnerCategoryName: name,
		CategoryID:        input.CategoryID,
		SubCategoryID:     input.SubCategoryID,
		Status:            status,
	}
	if err := s.inners.Create(inner); err != nil {
		return nil, translateStoreErr(err)
	}
	return inner, nil
}

func (s *innerCategoryService) Update(id uuid.UUID, input UpdateInnerCategoryInput) (*model.InnerCategory, error) {
	inner, err := s.inners.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inner category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	inner.Category = nil
	inner.SubCategory = nil

	if input.CategoryID != nil {
		inner.CategoryID = *input.CategoryID
	}
	if input.SubCategoryID != nil {
		inner.SubCategoryID = *input.SubCategoryID
	}
	if input.CategoryID != nil || input.SubCategoryID != nil {
		if err := s.checkChain(inner.CategoryID, inner.SubCategoryID); err != nil {
			return nil, err
		}
	}

	if input.InnerCategoryName != nil {
		name := strings.TrimSpace(*input.InnerCategoryName)
		if name == "" {
			return nil, apperr.Validation("inner_category_name cannot be empty")
		}
		inner.InnerCategoryName = name
	}

	if input.InnerCategoryName != nil || input.CategoryID != nil || input.SubCategoryID != nil {
		if _, err := s.inners.FindDuplicate(inner.CategoryID, inner.SubCategoryID, inner.InnerCategoryName, &id); err == nil {
			return nil, apperr.Conflict("inner_category_name already exists in this sub category")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unexpected(err)
		}
	}

	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		inner.Status = *input.Status
	}

	if err := s.inners.Update(inner); err != nil {
		return nil, translateStoreErr(err)
	}
	return inner, nil
}

func (s *innerCategoryService) Get(id uuid.UUID) (*model.InnerCategory, error) {
	inner, err := s.inners.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inner category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	return inner, nil
}

func (s *innerCategoryService) List(q repository.ListQuery, categoryID, subCategoryID *uuid.UUID) ([]model.InnerCategory, repository.PageMeta, error) {
	inners, total, err := s.inners.List(q, categoryID, subCategoryID)
	if err != nil {
		return nil, repository.PageMeta{}, apperr.Unexpected(err)
	}
	q.Normalize()
	return inners, repository.NewPageMeta(q, total), nil
}

func (s *innerCategoryService) Delete(id uuid.UUID) error {
	if _, err := s.inners.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("inner category not found")
		}
		return apperr.Unexpected(err)
	}
	if err := s.inners.Delete(id); err != nil {
		return translateStoreErr(err)
	}
	return nil
}
