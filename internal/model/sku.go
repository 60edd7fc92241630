package model

import "github.com/google/uuid"

// ProductSku is one purchasable unit of a product. The sku code is unique
// within the owning product. A product without variation axes may have at
// most one SKU; a product with axes requires each SKU to select exactly one
// option per chosen axis (enforced by the SKU service, not the schema).
type ProductSku struct {
	BaseModel
	Sku              string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_sku" json:"sku" validate:"required"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_sku" json:"product_id" validate:"uuid_required"`
	Product          *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	ProductSkuName   string    `gorm:"type:varchar(255);not null" json:"product_sku_name" validate:"required"`
	Description      string    `gorm:"type:text" json:"description"`
	ThumbnailImage   string    `gorm:"type:varchar(512)" json:"thumbnail_image"`
	SkuImages        []string  `gorm:"serializer:json" json:"sku_images"`
	Mrp              float64   `gorm:"not null" json:"mrp" validate:"required,gt=0"`
	Price            float64   `gorm:"not null" json:"price" validate:"required,gt=0"`
	Quantity         int       `gorm:"not null" json:"quantity" validate:"gte=0"`
	IsNew            bool      `gorm:"default:false" json:"is_new"`
	SingleOrderLimit int       `gorm:"default:1" json:"single_order_limit"`
	IsOutOfStock     bool      `gorm:"default:false" json:"is_out_of_stock"`
	Status           int       `gorm:"default:1" json:"status"`
}

// ProductVariationConfiguration records one (SKU, axis) choice. For a given
// SKU the variation ids must be distinct, and within a product no two SKUs
// may carry the same set of option ids.
type ProductVariationConfiguration struct {
	BaseModel
	ProductID                uuid.UUID               `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductSkuID             uuid.UUID               `gorm:"type:uuid;not null;index" json:"product_sku_id"`
	ProductSku               *ProductSku             `gorm:"foreignKey:ProductSkuID" json:"-"`
	ProductVariationID       uuid.UUID               `gorm:"type:uuid;not null" json:"product_variation_id"`
	ProductVariation         *ProductVariation       `gorm:"foreignKey:ProductVariationID" json:"-"`
	ProductVariationOptionID uuid.UUID               `gorm:"type:uuid;not null" json:"product_variation_option_id"`
	ProductVariationOption   *ProductVariationOption `gorm:"foreignKey:ProductVariationOptionID" json:"-"`
	Status                   int                     `gorm:"default:1" json:"status"`
}
