package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

// ContentHandler serves the banner, blog and carousel endpoints. These are
// plain documents with an optional image, so the handler talks to the
// repositories directly.
type ContentHandler struct {
	banners  repository.BannerRepository
	blogs    repository.BlogRepository
	carousel repository.CarouselRepository
	files    storage.FileStore
	log      *zap.Logger
}

func NewContentHandler(
	banners repository.BannerRepository,
	blogs repository.BlogRepository,
	carousel repository.CarouselRepository,
	files storage.FileStore,
	log *zap.Logger,
) *ContentHandler {
	return &ContentHandler{banners: banners, blogs: blogs, carousel: carousel, files: files, log: log}
}

func (h *ContentHandler) CreateBanner(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(400).JSON(fiber.Map{"message": "title is required"})
	}

	imageRef, err := saveUpload(c, h.files, "banner_image", "banner")
	if err != nil {
		return respondError(c, h.log, err)
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	banner := &model.Banner{
		Title:       title,
		BannerImage: imageRef,
		LinkURL:     c.FormValue("link_url"),
		Status:      model.StatusActive,
	}
	if status != nil {
		banner.Status = *status
	}
	if err := h.banners.Create(banner); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Banner created", "data": banner})
}

func (h *ContentHandler) UpdateBanner(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid banner ID"})
	}
	banner, err := h.banners.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Banner not found"})
		}
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "banner_image", "banner")
	if err != nil {
		return respondError(c, h.log, err)
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	if title := c.FormValue("title"); title != "" {
		banner.Title = title
	}
	if link := c.FormValue("link_url"); link != "" {
		banner.LinkURL = link
	}
	if status != nil {
		banner.Status = *status
	}
	oldImage := ""
	if imageRef != "" {
		oldImage = banner.BannerImage
		banner.BannerImage = imageRef
	}

	if err := h.banners.Update(banner); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, oldImage)
	return c.JSON(fiber.Map{"message": "Banner updated", "data": banner})
}

func (h *ContentHandler) ListBanners(c *fiber.Ctx) error {
	q := listQuery(c)
	q.Normalize()
	banners, total, err := h.banners.List(q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": repository.NewPageMeta(q, total), "data": banners})
}

func (h *ContentHandler) GetBanner(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid banner ID"})
	}
	banner, err := h.banners.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Banner not found"})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": banner})
}

func (h *ContentHandler) DeleteBanner(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid banner ID"})
	}
	banner, err := h.banners.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Banner not found"})
		}
		return respondError(c, h.log, err)
	}
	if err := h.banners.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, banner.BannerImage)
	return c.JSON(fiber.Map{"message": "Banner deleted"})
}

func (h *ContentHandler) CreateBlog(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(400).JSON(fiber.Map{"message": "title is required"})
	}

	imageRef, err := saveUpload(c, h.files, "blog_image", "blog")
	if err != nil {
		return respondError(c, h.log, err)
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	blog := &model.Blog{
		Title:     title,
		Content:   c.FormValue("content"),
		Author:    c.FormValue("author"),
		BlogImage: imageRef,
		Status:    model.StatusActive,
	}
	if status != nil {
		blog.Status = *status
	}
	if err := h.blogs.Create(blog); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Blog created", "data": blog})
}

func (h *ContentHandler) UpdateBlog(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid blog ID"})
	}
	blog, err := h.blogs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Blog not found"})
		}
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "blog_image", "blog")
	if err != nil {
		return respondError(c, h.log, err)
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	if title := c.FormValue("title"); title != "" {
		blog.Title = title
	}
	if content := c.FormValue("content"); content != "" {
		blog.Content = content
	}
	if author := c.FormValue("author"); author != "" {
		blog.Author = author
	}
	if status != nil {
		blog.Status = *status
	}
	oldImage := ""
	if imageRef != "" {
		oldImage = blog.BlogImage
		blog.BlogImage = imageRef
	}

	if err := h.blogs.Update(blog); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, oldImage)
	return c.JSON(fiber.Map{"message": "Blog updated", "data": blog})
}

func (h *ContentHandler) ListBlogs(c *fiber.Ctx) error {
	q := listQuery(c)
	q.Normalize()
	blogs, total, err := h.blogs.List(q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": repository.NewPageMeta(q, total), "data": blogs})
}

func (h *ContentHandler) GetBlog(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid blog ID"})
	}
	blog, err := h.blogs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Blog not found"})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": blog})
}

func (h *ContentHandler) DeleteBlog(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid blog ID"})
	}
	blog, err := h.blogs.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Blog not found"})
		}
		return respondError(c, h.log, err)
	}
	if err := h.blogs.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, blog.BlogImage)
	return c.JSON(fiber.Map{"message": "Blog deleted"})
}

func (h *ContentHandler) CreateCarouselItem(c *fiber.Ctx) error {
	imageRef, err := saveUpload(c, h.files, "carousel_image", "carousel")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if imageRef == "" {
		return c.Status(400).JSON(fiber.Map{"message": "carousel_image is required"})
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	item := &model.CarouselItem{
		Title:         c.FormValue("title"),
		CarouselImage: imageRef,
		Status:        model.StatusActive,
	}
	if raw := c.FormValue("sort_order"); raw != "" {
		order, convErr := strconv.Atoi(raw)
		if convErr != nil {
			cleanupUploads(h.files, imageRef)
			return c.Status(400).JSON(fiber.Map{"message": "sort_order must be a number"})
		}
		item.SortOrder = order
	}
	if status != nil {
		item.Status = *status
	}

	if err := h.carousel.Create(item); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Carousel item created", "data": item})
}

func (h *ContentHandler) UpdateCarouselItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid carousel item ID"})
	}
	item, err := h.carousel.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Carousel item not found"})
		}
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "carousel_image", "carousel")
	if err != nil {
		return respondError(c, h.log, err)
	}
	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	if title := c.FormValue("title"); title != "" {
		item.Title = title
	}
	if raw := c.FormValue("sort_order"); raw != "" {
		order, convErr := strconv.Atoi(raw)
		if convErr != nil {
			cleanupUploads(h.files, imageRef)
			return c.Status(400).JSON(fiber.Map{"message": "sort_order must be a number"})
		}
		item.SortOrder = order
	}
	if status != nil {
		item.Status = *status
	}
	oldImage := ""
	if imageRef != "" {
		oldImage = item.CarouselImage
		item.CarouselImage = imageRef
	}

	if err := h.carousel.Update(item); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, oldImage)
	return c.JSON(fiber.Map{"message": "Carousel item updated", "data": item})
}

func (h *ContentHandler) ListCarouselItems(c *fiber.Ctx) error {
	q := listQuery(c)
	q.Normalize()
	items, total, err := h.carousel.List(q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": repository.NewPageMeta(q, total), "data": items})
}

func (h *ContentHandler) GetCarouselItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid carousel item ID"})
	}
	item, err := h.carousel.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Carousel item not found"})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *ContentHandler) DeleteCarouselItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid carousel item ID"})
	}
	item, err := h.carousel.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Carousel item not found"})
		}
		return respondError(c, h.log, err)
	}
	if err := h.carousel.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, item.CarouselImage)
	return c.JSON(fiber.Map{"message": "Carousel item deleted"})
}
