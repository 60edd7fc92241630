package model

import "github.com/google/uuid"

// Feature is a free-form option/value pair attached to a product
// (e.g. {"Material", "Steel"}). Both sides must be non-empty after trimming.
type Feature struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

// CategoryMode selects, at deployment time, the shape of a product's
// category linkage. The stored columns cover all three modes; the mode only
// changes which of them create/update validates and requires.
type CategoryMode string

const (
	// CategorySingle: one category_id, required.
	CategorySingle CategoryMode = "single"
	// CategoryMulti: one or more categories through the join table.
	CategoryMulti CategoryMode = "multi"
	// CategoryHierarchical: category + sub-category + inner-category chain.
	CategoryHierarchical CategoryMode = "hierarchical"
)

// ParseCategoryMode maps the PRODUCT_CATEGORY_MODE env value to a mode,
// defaulting to hierarchical.
func ParseCategoryMode(s string) CategoryMode {
	switch CategoryMode(s) {
	case CategorySingle, CategoryMulti, CategoryHierarchical:
		return CategoryMode(s)
	default:
		return CategoryHierarchical
	}
}

// Product is the aggregate root of the variation/SKU subsystem. It
// exclusively owns its variations, options, configurations and SKUs; deleting
// a product cascades through all four. Category and brand references are
// non-owning.
type Product struct {
	BaseModel
	ProductName  string `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	ProductImage string `gorm:"type:varchar(512)" json:"product_image"`

	CategoryID      *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category        *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Categories      []Category     `gorm:"many2many:product_categories;" json:"categories,omitempty" validate:"-"`
	SubCategoryID   *uuid.UUID     `gorm:"type:uuid;index" json:"sub_category_id,omitempty"`
	SubCategory     *SubCategory   `gorm:"foreignKey:SubCategoryID" json:"sub_category,omitempty" validate:"-"`
	InnerCategoryID *uuid.UUID     `gorm:"type:uuid;index" json:"inner_category_id,omitempty"`
	InnerCategory   *InnerCategory `gorm:"foreignKey:InnerCategoryID" json:"inner_category,omitempty" validate:"-"`

	BrandID *uuid.UUID `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Brand   *Brand     `gorm:"foreignKey:BrandID" json:"brand,omitempty" validate:"-"`

	Features   []Feature `gorm:"serializer:json" json:"features"`
	Advantages []string  `gorm:"serializer:json" json:"advantages"`
	Status     int       `gorm:"default:1" json:"status"`
}

// ProductVariation is one variation axis of a product (e.g. "Color").
type ProductVariation struct {
	BaseModel
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"-" validate:"-"`
	Status    int       `gorm:"default:1" json:"status"`
}

// ProductVariationOption is one selectable value on an axis (e.g. "Red").
// It belongs to exactly one variation, which belongs to exactly one product;
// ProductID is denormalized for the ownership-chain check.
type ProductVariationOption struct {
	BaseModel
	Name               string            `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ProductID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductVariationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_variation_id" validate:"uuid_required"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"-" validate:"-"`
	Status             int               `gorm:"default:1" json:"status"`
}

// VariationInput is the payload shape accepted when creating or updating a
// product with variations: one entry per axis with its option names.
type VariationInput struct {
	VariationName string   `json:"variation_name"`
	Options       []string `json:"options"`
}
