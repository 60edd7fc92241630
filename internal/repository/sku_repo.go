package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

type SkuRepository interface {
	Create(tx *gorm.DB, sku *model.ProductSku) error
	FindByID(id uuid.UUID) (*model.ProductSku, error)
	FindByCode(tx *gorm.DB, productID uuid.UUID, code string, excludeID *uuid.UUID) (*model.ProductSku, error)
	CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error)
	FindActiveByProduct(productID uuid.UUID) ([]model.ProductSku, error)
	List(q ListQuery, productID *uuid.UUID) ([]model.ProductSku, int64, error)
	Save(tx *gorm.DB, sku *model.ProductSku) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error

	CreateConfigurations(tx *gorm.DB, rows []model.ProductVariationConfiguration) error
	ConfigurationsByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.ProductVariationConfiguration, error)
	ConfigurationsBySku(skuID uuid.UUID) ([]model.ProductVariationConfiguration, error)
	DeleteConfigurationsBySku(tx *gorm.DB, skuID uuid.UUID) error
	DeleteConfigurationsByProduct(tx *gorm.DB, productID uuid.UUID) error
}

type skuRepo struct {
	db *gorm.DB
}

func NewSkuRepo(db *gorm.DB) SkuRepository {
	return &skuRepo{db}
}

func (r *skuRepo) Create(tx *gorm.DB, sku *model.ProductSku) error {
	return tx.Create(sku).Error
}

func (r *skuRepo) FindByID(id uuid.UUID) (*model.ProductSku, error) {
	var sku model.ProductSku
	if err := r.db.Preload("Product").First(&sku, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

// FindByCode checks sku-code uniqueness within the owning product.
func (r *skuRepo) FindByCode(tx *gorm.DB, productID uuid.UUID, code string, excludeID *uuid.UUID) (*model.ProductSku, error) {
	var sku model.ProductSku
	query := tx.Where("product_id = ? AND sku = ?", productID, code)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.ProductSku{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *skuRepo) FindActiveByProduct(productID uuid.UUID) ([]model.ProductSku, error) {
	var skus []model.ProductSku
	err := r.db.Where("product_id = ? AND status = ?", productID, model.StatusActive).
		Order("created_at ASC").Find(&skus).Error
	return skus, err
}

func (r *skuRepo) List(q ListQuery, productID *uuid.UUID) ([]model.ProductSku, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.ProductSku{})
	if q.Search != "" {
		query = query.Where("LOWER(product_sku_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var skus []model.ProductSku
	err := query.Preload("Product").Order("created_at DESC").
		Offset(q.Offset()).Limit(q.Limit).Find(&skus).Error
	return skus, total, err
}

func (r *skuRepo) Save(tx *gorm.DB, sku *model.ProductSku) error {
	return tx.Save(sku).Error
}

func (r *skuRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ProductSku{}, "id = ?", id).Error
}

func (r *skuRepo) DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.ProductSku{}, "product_id = ?", productID).Error
}

func (r *skuRepo) CreateConfigurations(tx *gorm.DB, rows []model.ProductVariationConfiguration) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ConfigurationsByProduct returns every configuration row of a product, for
// the duplicate-selection check. Runs inside tx so concurrent writers observe
// each other through the product row lock.
func (r *skuRepo) ConfigurationsByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.ProductVariationConfiguration, error) {
	var rows []model.ProductVariationConfiguration
	err := tx.Where("product_id = ?", productID).Find(&rows).Error
	return rows, err
}

func (r *skuRepo) ConfigurationsBySku(skuID uuid.UUID) ([]model.ProductVariationConfiguration, error) {
	var rows []model.ProductVariationConfiguration
	err := r.db.Where("product_sku_id = ?", skuID).Find(&rows).Error
	return rows, err
}

func (r *skuRepo) DeleteConfigurationsBySku(tx *gorm.DB, skuID uuid.UUID) error {
	return tx.Delete(&model.ProductVariationConfiguration{}, "product_sku_id = ?", skuID).Error
}

func (r *skuRepo) DeleteConfigurationsByProduct(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.ProductVariationConfiguration{}, "product_id = ?", productID).Error
}
