package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

type SubCategoryRepository interface {
	Create(sub *model.SubCategory) error
	FindByID(id uuid.UUID) (*model.SubCategory, error)
	FindDuplicate(categoryID uuid.UUID, name string, excludeID *uuid.UUID) (*model.SubCategory, error)
	List(q ListQuery, categoryID *uuid.UUID) ([]model.SubCategory, int64, error)
	Update(sub *model.SubCategory) error
	Delete(id uuid.UUID) error
}

type subCategoryRepo struct {
	db *gorm.DB
}

func NewSubCategoryRepo(db *gorm.DB) SubCategoryRepository {
	return &subCategoryRepo{db}
}

func (r *subCategoryRepo) Create(sub *model.SubCategory) error {
	return r.db.Create(sub).Error
}

func (r *subCategoryRepo) FindByID(id uuid.UUID) (*model.SubCategory, error) {
	var sub model.SubCategory
	if err := r.db.Preload("Category").First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindDuplicate checks name uniqueness scoped to the parent category.
func (r *subCategoryRepo) FindDuplicate(categoryID uuid.UUID, name string, excludeID *uuid.UUID) (*model.SubCategory, error) {
	var sub model.SubCategory
	query := r.db.Where("category_id = ? AND LOWER(sub_category_name) = LOWER(?)", categoryID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subCategoryRepo) List(q ListQuery, categoryID *uuid.UUID) ([]model.SubCategory, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.SubCategory{})
	if q.Search != "" {
		query = query.Where("LOWER(sub_category_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.SubCategory
	err := query.Preload("Category").Order("created_at DESC").
		Offset(q.Offset()).Limit(q.Limit).Find(&subs).Error
	return subs, total, err
}

func (r *subCategoryRepo) Update(sub *model.SubCategory) error {
	return r.db.Save(sub).Error
}

func (r *subCategoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.SubCategory{}, "id = ?", id).Error
}
