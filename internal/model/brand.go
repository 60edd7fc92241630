package model

// Brand is a flat lookup referenced by products. Name is unique
// case-insensitively.
type Brand struct {
	BaseModel
	BrandName  string `gorm:"type:varchar(255);not null" json:"brand_name" validate:"required"`
	BrandImage string `gorm:"type:varchar(512)" json:"brand_image"`
	Status     int    `gorm:"default:1" json:"status"`
}
