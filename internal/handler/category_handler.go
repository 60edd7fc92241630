package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/service"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type CategoryHandler struct {
	categories service.CategoryService
	files      storage.FileStore
	log        *zap.Logger
}

func NewCategoryHandler(categories service.CategoryService, files storage.FileStore, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, files: files, log: log}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	imageRef, err := saveUpload(c, h.files, "category_image", "category")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	input := service.CreateCategoryInput{
		CategoryName:  c.FormValue("category_name"),
		CategoryImage: imageRef,
		Status:        status,
	}
	if raw := c.FormValue("is_listing"); raw != "" {
		v := raw == "true" || raw == "1"
		input.IsListing = &v
	}

	category, err := h.categories.Create(input)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
	}

	imageRef, err := saveUpload(c, h.files, "category_image", "category")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	input := service.UpdateCategoryInput{Status: status}
	if name := c.FormValue("category_name"); name != "" {
		input.CategoryName = &name
	}
	if raw := c.FormValue("is_listing"); raw != "" {
		v := raw == "true" || raw == "1"
		input.IsListing = &v
	}
	if imageRef != "" {
		input.CategoryImage = &imageRef
	}

	category, err := h.categories.Update(id, input)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var isListing *bool
	if raw := c.Query("is_listing"); raw != "" {
		v := raw == "true" || raw == "1"
		isListing = &v
	}

	categories, meta, err := h.categories.List(listQuery(c), isListing)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": meta, "data": categories})
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	category, err := h.categories.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": category})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	if err := h.categories.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
