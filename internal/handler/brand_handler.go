package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/ws"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type BrandHandler struct {
	brands repository.BrandRepository
	files  storage.FileStore
	hub    *ws.Hub
	log    *zap.Logger
}

func NewBrandHandler(brands repository.BrandRepository, files storage.FileStore, hub *ws.Hub, log *zap.Logger) *BrandHandler {
	return &BrandHandler{brands: brands, files: files, hub: hub, log: log}
}

func (h *BrandHandler) Create(c *fiber.Ctx) error {
	name := c.FormValue("brand_name")
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"message": "brand_name is required"})
	}

	if _, err := h.brands.FindByNameCI(name, nil); err == nil {
		return c.Status(409).JSON(fiber.Map{"message": "A brand with this name already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "brand_image", "brand")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	brand := &model.Brand{BrandName: name, BrandImage: imageRef, Status: model.StatusActive}
	if status != nil {
		brand.Status = *status
	}
	if err := h.brands.Create(brand); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}

	h.hub.Notify("created", "brand", brand.ID.String(), brand.BrandName)
	return c.Status(201).JSON(fiber.Map{"message": "Brand created", "data": brand})
}

func (h *BrandHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid brand ID"})
	}

	brand, err := h.brands.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Brand not found"})
		}
		return respondError(c, h.log, err)
	}

	if name := c.FormValue("brand_name"); name != "" && name != brand.BrandName {
		if _, err := h.brands.FindByNameCI(name, &id); err == nil {
			return c.Status(409).JSON(fiber.Map{"message": "A brand with this name already exists"})
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, h.log, err)
		}
		brand.BrandName = name
	}

	imageRef, err := saveUpload(c, h.files, "brand_image", "brand")
	if err != nil {
		return respondError(c, h.log, err)
	}

	status, err := statusFromForm(c)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	if status != nil {
		brand.Status = *status
	}

	oldImage := ""
	if imageRef != "" {
		oldImage = brand.BrandImage
		brand.BrandImage = imageRef
	}

	if err := h.brands.Update(brand); err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, oldImage)

	h.hub.Notify("updated", "brand", brand.ID.String(), brand.BrandName)
	return c.JSON(fiber.Map{"message": "Brand updated", "data": brand})
}

func (h *BrandHandler) List(c *fiber.Ctx) error {
	q := listQuery(c)
	q.Normalize()
	brands, total, err := h.brands.List(q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": repository.NewPageMeta(q, total), "data": brands})
}

func (h *BrandHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid brand ID"})
	}
	brand, err := h.brands.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Brand not found"})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": brand})
}

func (h *BrandHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid brand ID"})
	}

	brand, err := h.brands.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": "Brand not found"})
		}
		return respondError(c, h.log, err)
	}

	if err := h.brands.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	cleanupUploads(h.files, brand.BrandImage)

	h.hub.Notify("deleted", "brand", id.String(), brand.BrandName)
	return c.JSON(fiber.Map{"message": "Brand deleted"})
}
