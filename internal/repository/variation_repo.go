package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

// VariationWithOptions is the read shape for a product's variation axes.
type VariationWithOptions struct {
	model.ProductVariation
	Options []model.ProductVariationOption `json:"options"`
}

type VariationRepository interface {
	CreateVariation(tx *gorm.DB, v *model.ProductVariation) error
	CreateOption(tx *gorm.DB, o *model.ProductVariationOption) error
	CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error)
	FindOptionByID(tx *gorm.DB, id uuid.UUID) (*model.ProductVariationOption, error)
	FindVariationByID(tx *gorm.DB, id uuid.UUID) (*model.ProductVariation, error)
	FindByProduct(productID uuid.UUID) ([]VariationWithOptions, error)
	DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error
}

type variationRepo struct {
	db *gorm.DB
}

func NewVariationRepo(db *gorm.DB) VariationRepository {
	return &variationRepo{db}
}

func (r *variationRepo) CreateVariation(tx *gorm.DB, v *model.ProductVariation) error {
	return tx.Create(v).Error
}

func (r *variationRepo) CreateOption(tx *gorm.DB, o *model.ProductVariationOption) error {
	return tx.Create(o).Error
}

// CountByProduct returns the number of variation axes a product defines.
// Runs inside tx so the SKU engine's gating decision sees transactional state.
func (r *variationRepo) CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.ProductVariation{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *variationRepo) FindOptionByID(tx *gorm.DB, id uuid.UUID) (*model.ProductVariationOption, error) {
	var option model.ProductVariationOption
	if err := tx.First(&option, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *variationRepo) FindVariationByID(tx *gorm.DB, id uuid.UUID) (*model.ProductVariation, error) {
	var variation model.ProductVariation
	if err := tx.First(&variation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *variationRepo) FindByProduct(productID uuid.UUID) ([]VariationWithOptions, error) {
	var variations []model.ProductVariation
	if err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&variations).Error; err != nil {
		return nil, err
	}

	result := make([]VariationWithOptions, 0, len(variations))
	for _, v := range variations {
		var options []model.ProductVariationOption
		if err := r.db.Where("product_variation_id = ?", v.ID).Order("created_at ASC").Find(&options).Error; err != nil {
			return nil, err
		}
		result = append(result, VariationWithOptions{ProductVariation: v, Options: options})
	}
	return result, nil
}

// DeleteByProduct removes all options then all variations of a product.
func (r *variationRepo) DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error {
	if err := tx.Delete(&model.ProductVariationOption{}, "product_id = ?", productID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ProductVariation{}, "product_id = ?", productID).Error
}
