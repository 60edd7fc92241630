package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

type InnerCategoryRepository interface {
	Create(inner *model.InnerCategory) error
	FindByID(id uuid.UUID) (*model.InnerCategory, error)
	FindDuplicate(categoryID, subCategoryID uuid.UUID, name string, excludeID *uuid.UUID) (*model.InnerCategory, error)
	List(q ListQuery, categoryID, subCategoryID *uuid.UUID) ([]model.InnerCategory, int64, error)
	Update(inner *model.InnerCategory) error
	Delete(id uuid.UUID) error
}

type innerCategoryRepo struct {
	db *gorm.DB
}

func NewInnerCategoryRepo(db *gorm.DB) InnerCategoryRepository {
	return &innerCategoryRepo{db}
}

func (r *innerCategoryRepo) Create(inner *model.InnerCategory) error {
	return r.db.Create(inner).Error
}

func (r *innerCategoryRepo) FindByID(id uuid.UUID) (*model.InnerCategory, error) {
	var inner model.InnerCategory
	if err := r.db.Preload("Category").Preload("SubCategory").First(&inner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inner, nil
}

// FindDuplicate checks name uniqueness scoped to the (category, sub-category)
// pair.
func (r *innerCategoryRepo) FindDuplicate(categoryID, subCategoryID uuid.UUID, name string, excludeID *uuid.UUID) (*model.InnerCategory, error) {
	var inner model.InnerCategory
	query := r.db.Where(
		"category_id = ? AND sub_category_id = ? AND LOWER(inner_category_name) = LOWER(?)",
		categoryID, subCategoryID, name,
	)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&inner).Error; err != nil {
		return nil, err
	}
	return &inner, nil
}

func (r *innerCategoryRepo) List(q ListQuery, categoryID, subCategoryID *uuid.UUID) ([]model.InnerCategory, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.InnerCategory{})
	if q.Search != "" {
		query = query.Where("LOWER(inner_category_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if subCategoryID != nil {
		query = query.Where("sub_category_id = ?", *subCategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var inners []model.InnerCategory
	err := query.Preload("Category").Preload("SubCategory").Order("created_at DESC").
		Offset(q.Offset()).Limit(q.Limit).Find(&inners).Error
	return inners, total, err
}

func (r *innerCategoryRepo) Update(inner *model.InnerCategory) error {
	return r.db.Save(inner).Error
}

func (r *innerCategoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.InnerCategory{}, "id = ?", id).Error
}
