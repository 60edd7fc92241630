package model

import "github.com/google/uuid"

// Category is the top level of the catalog hierarchy.
// At most two categories system-wide may have IsListing set.
type Category struct {
	BaseModel
	CategoryName  string `gorm:"type:varchar(255);not null" json:"category_name" validate:"required"`
	CategoryImage string `gorm:"type:varchar(512)" json:"category_image"`
	Status        int    `gorm:"default:1" json:"status"`
	IsListing     bool   `gorm:"default:false;index" json:"is_listing"`
}

// SubCategory belongs to exactly one Category. Its name is unique
// (case-insensitive) within that category.
type SubCategory struct {
	BaseModel
	SubCategoryName  string    `gorm:"type:varchar(255);not null" json:"sub_category_name" validate:"required"`
	SubCategoryImage string    `gorm:"type:varchar(512)" json:"sub_category_image"`
	CategoryID       uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category         *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Status           int       `gorm:"default:1" json:"status"`
}

// InnerCategory belongs to a SubCategory, which in turn must belong to the
// referenced Category. Name is unique within the (category, sub-category) pair.
type InnerCategory struct {
	BaseModel
	InnerCategoryName string       `gorm:"type:varchar(255);not null" json:"inner_category_name" validate:"required"`
	CategoryID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	SubCategoryID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"sub_category_id" validate:"uuid_required"`
	Category          *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	SubCategory       *SubCategory `gorm:"foreignKey:SubCategoryID" json:"sub_category,omitempty" validate:"-"`
	Status            int          `gorm:"default:1" json:"status"`
}
