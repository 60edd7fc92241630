package model

// Banner, Blog and CarouselItem are plain content documents managed by the
// admin panel. They share the image/status shape of the catalog entities but
// carry no invariants beyond field validation.

type Banner struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	BannerImage string `gorm:"type:varchar(512)" json:"banner_image"`
	LinkURL     string `gorm:"type:varchar(512)" json:"link_url"`
	Status      int    `gorm:"default:1" json:"status"`
}

type Blog struct {
	BaseModel
	Title      string `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Content    string `gorm:"type:text" json:"content"`
	Author     string `gorm:"type:varchar(255)" json:"author"`
	BlogImage  string `gorm:"type:varchar(512)" json:"blog_image"`
	Status     int    `gorm:"default:1" json:"status"`
}

type CarouselItem struct {
	BaseModel
	Title         string `gorm:"type:varchar(255)" json:"title"`
	CarouselImage string `gorm:"type:varchar(512)" json:"carousel_image" validate:"required"`
	SortOrder     int    `gorm:"default:0" json:"sort_order"`
	Status        int    `gorm:"default:1" json:"status"`
}
