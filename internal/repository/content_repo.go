package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

// Banner, blog and carousel storage. These are plain content documents, so
// the repositories stay minimal.

type BannerRepository interface {
	Create(banner *model.Banner) error
	FindByID(id uuid.UUID) (*model.Banner, error)
	List(q ListQuery) ([]model.Banner, int64, error)
	Update(banner *model.Banner) error
	Delete(id uuid.UUID) error
}

type bannerRepo struct {
	db *gorm.DB
}

func NewBannerRepo(db *gorm.DB) BannerRepository {
	return &bannerRepo{db}
}

func (r *bannerRepo) Create(banner *model.Banner) error {
	return r.db.Create(banner).Error
}

func (r *bannerRepo) FindByID(id uuid.UUID) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepo) List(q ListQuery) ([]model.Banner, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Banner{})
	if q.Search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var banners []model.Banner
	err := query.Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&banners).Error
	return banners, total, err
}

func (r *bannerRepo) Update(banner *model.Banner) error {
	return r.db.Save(banner).Error
}

func (r *bannerRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Banner{}, "id = ?", id).Error
}

type BlogRepository interface {
	Create(blog *model.Blog) error
	FindByID(id uuid.UUID) (*model.Blog, error)
	List(q ListQuery) ([]model.Blog, int64, error)
	Update(blog *model.Blog) error
	Delete(id uuid.UUID) error
}

type blogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) BlogRepository {
	return &blogRepo{db}
}

func (r *blogRepo) Create(blog *model.Blog) error {
	return r.db.Create(blog).Error
}

func (r *blogRepo) FindByID(id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.First(&blog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepo) List(q ListQuery) ([]model.Blog, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Blog{})
	if q.Search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []model.Blog
	err := query.Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&blogs).Error
	return blogs, total, err
}

func (r *blogRepo) Update(blog *model.Blog) error {
	return r.db.Save(blog).Error
}

func (r *blogRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Blog{}, "id = ?", id).Error
}

type CarouselRepository interface {
	Create(item *model.CarouselItem) error
	FindByID(id uuid.UUID) (*model.CarouselItem, error)
	List(q ListQuery) ([]model.CarouselItem, int64, error)
	Update(item *model.CarouselItem) error
	Delete(id uuid.UUID) error
}

type carouselRepo struct {
	db *gorm.DB
}

func NewCarouselRepo(db *gorm.DB) CarouselRepository {
	return &carouselRepo{db}
}

func (r *carouselRepo) Create(item *model.CarouselItem) error {
	return r.db.Create(item).Error
}

func (r *carouselRepo) FindByID(id uuid.UUID) (*model.CarouselItem, error) {
	var item model.CarouselItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *carouselRepo) List(q ListQuery) ([]model.CarouselItem, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.CarouselItem{})
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.CarouselItem
	err := query.Order("sort_order ASC, created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&items).Error
	return items, total, err
}

func (r *carouselRepo) Update(item *model.CarouselItem) error {
	return r.db.Save(item).Error
}

func (r *carouselRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.CarouselItem{}, "id = ?", id).Error
}
