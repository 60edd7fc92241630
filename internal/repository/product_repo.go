package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

// ProductListQuery extends the common paging input with product filters.
type ProductListQuery struct {
	ListQuery
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
}

// SimilarFilter is one fallback stage of the similar-products search. Nil
// CategoryID/BrandID mean "do not filter on that axis".
type SimilarFilter struct {
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	ExcludeIDs []uuid.UUID
	Limit      int
}

// CatalogStats feeds the admin dashboard.
type CatalogStats struct {
	TotalProducts   int64 `json:"total_products"`
	ActiveProducts  int64 `json:"active_products"`
	TotalSkus       int64 `json:"total_skus"`
	OutOfStockSkus  int64 `json:"out_of_stock_skus"`
	TotalCategories int64 `json:"total_categories"`
	TotalBrands     int64 `json:"total_brands"`
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	List(q ProductListQuery) ([]model.Product, int64, error)
	Save(tx *gorm.DB, product *model.Product) error
	ReplaceCategories(tx *gorm.DB, product *model.Product, categories []model.Category) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindSimilar(f SimilarFilter) ([]model.Product, error)
	Stats() (*CatalogStats, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Category").Preload("Categories").
		Preload("SubCategory").Preload("InnerCategory").
		Preload("Brand").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForUpdate loads and row-locks the product inside tx. Every writer in
// the SKU configuration engine goes through this lock so the check-then-write
// sequence stays serialized per product.
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := lockForUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(q ProductListQuery) ([]model.Product, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Product{})
	if q.Search != "" {
		query = query.Where("LOWER(product_name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.CategoryID != nil {
		query = query.Where("category_id = ?", *q.CategoryID)
	}
	if q.BrandID != nil {
		query = query.Where("brand_id = ?", *q.BrandID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := query.
		Preload("Category").Preload("Brand").
		Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// ReplaceCategories swaps the multi-category association wholesale.
func (r *productRepo) ReplaceCategories(tx *gorm.DB, product *model.Product, categories []model.Category) error {
	return tx.Model(product).Association("Categories").Replace(categories)
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	product := model.Product{BaseModel: model.BaseModel{ID: id}}
	if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
		return err
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// FindSimilar returns active products matching one fallback stage, in
// creation order, excluding already-accumulated ids.
func (r *productRepo) FindSimilar(f SimilarFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{}).Where("status = ?", model.StatusActive)
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.BrandID != nil {
		query = query.Where("brand_id = ?", *f.BrandID)
	}
	if len(f.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", f.ExcludeIDs)
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var products []model.Product
	err := query.Preload("Category").Preload("Brand").
		Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Stats() (*CatalogStats, error) {
	var stats CatalogStats
	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	r.db.Model(&model.Product{}).Where("status = ?", model.StatusActive).Count(&stats.ActiveProducts)
	r.db.Model(&model.ProductSku{}).Count(&stats.TotalSkus)
	r.db.Model(&model.ProductSku{}).Where("is_out_of_stock = ?", true).Count(&stats.OutOfStockSkus)
	r.db.Model(&model.Category{}).Count(&stats.TotalCategories)
	r.db.Model(&model.Brand{}).Count(&stats.TotalBrands)
	return &stats, nil
}
