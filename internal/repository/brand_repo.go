package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindByID(id uuid.UUID) (*model.Brand, error)
	FindByNameCI(name string, excludeID *uuid.UUID) (*model.Brand, error)
	List(q ListQuery) ([]model.Brand, int64, error)
	Update(brand *model.Brand) error
	Delete(id uuid.UUID) error
}

type brandRepo struct {
	db *gorm.DB
}

func NewBrandRepo(db *gorm.DB) BrandRepository {
	return &brandRepo{db}
}

func (r *brandRepo) Create(brand *model.Brand) error {
	return r.db.Create(brand).Error
}

func (r *brandRepo) FindByID(id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) FindByNameCI(name string, excludeID *uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	query := r.db.Where("LOWER(brand_name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) List(q ListQuery) ([]model.Brand, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Brand{})
	if q.Search != "" {
		query = query.Where("LOWER(brand_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var brands []model.Brand
	err := query.Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&brands).Error
	return brands, total, err
}

func (r *brandRepo) Update(brand *model.Brand) error {
	return r.db.Save(brand).Error
}

func (r *brandRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Brand{}, "id = ?", id).Error
}
