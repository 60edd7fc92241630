package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uuid.UUID) (*model.Category, error)
	FindByNameCI(name string, excludeID *uuid.UUID) (*model.Category, error)
	CountListing(excludeID *uuid.UUID) (int64, error)
	List(q ListQuery, isListing *bool) ([]model.Category, int64, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByNameCI does the case-insensitive duplicate-name lookup, optionally
// excluding one id (the document being updated).
func (r *categoryRepo) FindByNameCI(name string, excludeID *uuid.UUID) (*model.Category, error) {
	var category model.Category
	query := r.db.Where("LOWER(category_name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) CountListing(excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.Model(&model.Category{}).Where("is_listing = ?", true)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *categoryRepo) List(q ListQuery, isListing *bool) ([]model.Category, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Category{})
	if q.Search != "" {
		query = query.Where("LOWER(category_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if isListing != nil {
		query = query.Where("is_listing = ?", *isListing)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []model.Category
	err := query.Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}
