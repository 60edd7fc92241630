package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type CreateSubCategoryInput struct {
	SubCategoryName  string
	SubCategoryImage string
	CategoryID       uuid.UUID
	Status           *int
}

type UpdateSubCategoryInput struct {
	SubCategoryName  *string
	SubCategoryImage *string
	CategoryID       *uuid.UUID
	Status           *int
}

type SubCategoryService interface {
	Create(input CreateSubCategoryInput) (*model.SubCategory, error)
	Update(id uuid.UUID, input UpdateSubCategoryInput) (*model.SubCategory, error)
	Get(id uuid.UUID) (*model.SubCategory, error)
	List(q repository.ListQuery, categoryID *uuid.UUID) ([]model.SubCategory, repository.PageMeta, error)
	Delete(id uuid.UUID) error
}

type subCategoryService struct {
	subs       repository.SubCategoryRepository
	categories repository.CategoryRepository
	files      storage.FileStore
	log        *zap.Logger
}

func NewSubCategoryService(subs repository.SubCategoryRepository, categories repository.CategoryRepository, files storage.FileStore, log *zap.Logger) SubCategoryService {
	return &subCategoryService{subs: subs, categories: categories, files: files, log: log}
}

// checkParent verifies the parent category exists.
func (s *subCategoryService) checkParent(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return apperr.Validation("category_id is required")
	}
	if _, err := s.categories.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *subCategoryService) Create(input CreateSubCategoryInput) (*model.SubCategory, error) {
	name := strings.TrimSpace(input.SubCategoryName)
	if name == "" {
		return nil, apperr.Validation("sub_category_name is required")
	}
	if err := s.checkParent(input.CategoryID); err != nil {
		return nil, err
	}

	if _, err := s.subs.FindDuplicate(input.CategoryID, name, nil); err == nil {
		return nil, apperr.Conflict("sub_category_name already exists in this category")
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

	sub := &model.SubCategory{
		SubCategoryName:  name,
		SubCategoryImage: input.SubCategoryImage,
		CategoryID:       input.CategoryID,
		Status:           status,
	}
	if err := s.subs.Create(sub); err != nil {
		return nil, translateStoreErr(err)
	}
	return sub, nil
}

func (s *subCategoryService) Update(id uuid.UUID, input UpdateSubCategoryInput) (*model.SubCategory, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("sub category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	oldImage := sub.SubCategoryImage
	sub.Category = nil

	if input.CategoryID != nil {
		if err := s.checkParent(*input.CategoryID); err != nil {
			return nil, err
		}
		sub.CategoryID = *input.CategoryID
	}

	if input.SubCategoryName != nil {
		name := strings.TrimSpace(*input.SubCategoryName)
		if name == "" {
			return nil, apperr.Validation("sub_category_name cannot be empty")
		}
		sub.SubCategoryName = name
	}

	// re-check the scoped duplicate whenever name or parent changed
	if input.SubCategoryName != nil || input.CategoryID != nil {
		if _, err := s.subs.FindDuplicate(sub.CategoryID, sub.SubCategoryName, &id); err == nil {
			return nil, apperr.Conflict("sub_category_name already exists in this category")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unexpected(err)
		}
	}

	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		sub.Status = *input.Status
	}
	if input.SubCategoryImage != nil {
		sub.SubCategoryImage = *input.SubCategoryImage
	}

	if err := s.subs.Update(sub); err != nil {
		return nil, translateStoreErr(err)
	}

	if input.SubCategoryImage != nil && oldImage != "" && oldImage != sub.SubCategoryImage {
		s.removeFile(oldImage)
	}
	return sub, nil
}

func (s *subCategoryService) Get(id uuid.UUID) (*model.SubCategory, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("sub category not found")
		}
		return nil, apperr.Unexpected(err)
	}
	return sub, nil
}

func (s *subCategoryService) List(q repository.ListQuery, categoryID *uuid.UUID) ([]model.SubCategory, repository.PageMeta, error) {
	subs, total, err := s.subs.List(q, categoryID)
	if err != nil {
		return nil, repository.PageMeta{}, apperr.Unexpected(err)
	}
	q.Normalize()
	return subs, repository.NewPageMeta(q, total), nil
}

func (s *subCategoryService) Delete(id uuid.UUID) error {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("sub category not found")
		}
		return apperr.Unexpected(err)
	}
	if err := s.subs.Delete(id); err != nil {
		return translateStoreErr(err)
	}
	s.removeFile(sub.SubCategoryImage)
	return nil
}

func (s *subCategoryService) removeFile(ref string) {
	if ref == "" {
		return
	}
	if err := s.files.Delete(ref); err != nil {
		s.log.Warn("failed to delete upload", zap.String("ref", ref), zap.Error(err))
	}
}
