package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/service"
)

type InnerCategoryHandler struct {
	inners service.InnerCategoryService
	log    *zap.Logger
}

func NewInnerCategoryHandler(inners service.InnerCategoryService, log *zap.Logger) *InnerCategoryHandler {
	return &InnerCategoryHandler{inners: inners, log: log}
}

type createInnerCategoryRequest struct {
	InnerCategoryName string `json:"inner_category_name"`
	CategoryID        string `json:"category_id"`
	SubCategoryID     string `json:"sub_category_id"`
	Status            *int   `json:"status"`
}

type updateInnerCategoryRequest struct {
	InnerCategoryName *string `json:"inner_category_name"`
	CategoryID        *string `json:"category_id"`
	SubCategoryID     *string `json:"sub_category_id"`
	Status            *int    `json:"status"`
}

func (h *InnerCategoryHandler) Create(c *fiber.Ctx) error {
	var req createInnerCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request body"})
	}

	categoryID, err := parseUUID(req.CategoryID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	subCategoryID, err := parseUUID(req.SubCategoryID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid sub category ID"})
	}

	inner, err := h.inners.Create(service.CreateInnerCategoryInput{
		InnerCategoryName: req.InnerCategoryName,
		CategoryID:        categoryID,
		SubCategoryID:     subCategoryID,
		Status:            req.Status,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Inner category created", "data": inner})
}

func (h *InnerCategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid inner category ID"})
	}

	var req updateInnerCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request body"})
	}

	input := service.UpdateInnerCategoryInput{
		InnerCategoryName: req.InnerCategoryName,
		Status:            req.Status,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid category ID"})
		}
		input.CategoryID = &categoryID
	}
	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid sub category ID"})
		}
		input.SubCategoryID = &subCategoryID
	}

	inner, err := h.inners.Update(id, input)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Inner category updated", "data": inner})
}

func (h *InnerCategoryHandler) List(c *fiber.Ctx) error {
	inners, meta, err := h.inners.List(listQuery(c), queryUUID(c, "category_id"), queryUUID(c, "sub_category_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": meta, "data": inners})
}

func (h *InnerCategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid inner category ID"})
	}
	inner, err := h.inners.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": inner})
}

func (h *InnerCategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid inner category ID"})
	}
	if err := h.inners.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Inner category deleted"})
}
