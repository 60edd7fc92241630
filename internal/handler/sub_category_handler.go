package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/service"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type SubCategoryHandler struct {
	subs  service.SubCategoryService
	files storage.FileStore
	log   *zap.Logger
}

func NewSubCategoryHandler(subs service.SubCategoryService, files storage.FileStore, log *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{subs: subs, files: files, log: log}
}

func (h *SubCategoryHandler) Create(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.FormValue("category_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
	}

	imageRef, err := saveUpload(c, h.files, "sub_category_image", "sub_category")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	sub, err := h.subs.Create(service.CreateSubCategoryInput{
		SubCategoryName:  c.FormValue("sub_category_name"),
		SubCategoryImage: imageRef,
		CategoryID:       categoryID,
		Status:           status,
	})
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sub category created", "data": sub})
}

func (h *SubCategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid sub category ID"})
	}

	imageRef, err := saveUpload(c, h.files, "sub_category_image", "sub_category")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	input := service.UpdateSubCategoryInput{Status: status}
	if name := c.FormValue("sub_category_name"); name != "" {
		input.SubCategoryName = &name
	}
	if raw := c.FormValue("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			cleanupUploads(h.files, imageRef)
			return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
		}
		input.CategoryID = &categoryID
	}
	if imageRef != "" {
		input.SubCategoryImage = &imageRef
	}

	sub, err := h.subs.Update(id, input)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Sub category updated", "data": sub})
}

func (h *SubCategoryHandler) List(c *fiber.Ctx) error {
	subs, meta, err := h.subs.List(listQuery(c), queryUUID(c, "category_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": meta, "data": subs})
}

func (h *SubCategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid sub category ID"})
	}
	sub, err := h.subs.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": sub})
}

func (h *SubCategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid sub category ID"})
	}
	if err := h.subs.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Sub category deleted"})
}
