package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/service"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type ProductHandler struct {
	products service.ProductService
	files    storage.FileStore
	log      *zap.Logger
}

func NewProductHandler(products service.ProductService, files storage.FileStore, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, files: files, log: log}
}

// formUUID parses an optional uuid form field. Empty means absent.
func formUUID(c *fiber.Ctx, field string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s", field)
	}
	return &id, nil
}

// formHas reports whether the multipart form carried the field at all,
// so partial updates can tell "absent" from "sent empty".
func formHas(c *fiber.Ctx, field string) bool {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return false
	}
	_, ok := form.Value[field]
	return ok
}

func parseFeatures(raw string) ([]model.Feature, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var features []model.Feature
	if err := json.Unmarshal([]byte(raw), &features); err != nil {
		return nil, apperr.Validation("features must be a JSON array of {option, value}")
	}
	return features, nil
}

func parseAdvantages(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var advantages []string
	if err := json.Unmarshal([]byte(raw), &advantages); err != nil {
		return nil, apperr.Validation("advantages must be a JSON array of strings")
	}
	return advantages, nil
}

func parseVariations(raw string) ([]model.VariationInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var variations []model.VariationInput
	if err := json.Unmarshal([]byte(raw), &variations); err != nil {
		return nil, apperr.Validation("variations must be a JSON array of {variation_name, options}")
	}
	return variations, nil
}

func parseCategoryIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil, apperr.Validation("category_ids must be a JSON array of uuids")
		}
	} else {
		parts = strings.Split(raw, ",")
	}
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, apperr.Validation("invalid category id: %s", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	input := service.CreateProductInput{
		ProductName: c.FormValue("product_name"),
	}

	var err error
	if input.CategoryID, err = formUUID(c, "category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.CategoryIDs, err = parseCategoryIDs(c.FormValue("category_ids")); err != nil {
		return respondError(c, h.log, err)
	}
	if input.SubCategoryID, err = formUUID(c, "sub_category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.InnerCategoryID, err = formUUID(c, "inner_category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.BrandID, err = formUUID(c, "brand_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Features, err = parseFeatures(c.FormValue("features")); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Advantages, err = parseAdvantages(c.FormValue("advantages")); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Variations, err = parseVariations(c.FormValue("variations")); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Status, err = statusFromForm(c); err != nil {
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "product_image", "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	input.ProductImage = imageRef

	product, err := h.products.Create(input)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	input := service.UpdateProductInput{}
	if name := c.FormValue("product_name"); name != "" {
		input.ProductName = &name
	}
	if input.CategoryID, err = formUUID(c, "category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if formHas(c, "category_ids") {
		input.CategoryIDsSet = true
		if input.CategoryIDs, err = parseCategoryIDs(c.FormValue("category_ids")); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if input.SubCategoryID, err = formUUID(c, "sub_category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.InnerCategoryID, err = formUUID(c, "inner_category_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if formHas(c, "brand_id") {
		input.BrandSupplied = true
		if input.BrandID, err = formUUID(c, "brand_id"); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if formHas(c, "features") {
		input.FeaturesSupplied = true
		if input.Features, err = parseFeatures(c.FormValue("features")); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if formHas(c, "advantages") {
		input.AdvantagesSupplied = true
		if input.Advantages, err = parseAdvantages(c.FormValue("advantages")); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if formHas(c, "variations") {
		input.VariationsSupplied = true
		if input.Variations, err = parseVariations(c.FormValue("variations")); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if input.Status, err = statusFromForm(c); err != nil {
		return respondError(c, h.log, err)
	}

	imageRef, err := saveUpload(c, h.files, "product_image", "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if imageRef != "" {
		input.ProductImage = &imageRef
	}

	product, err := h.products.Update(id, input)
	if err != nil {
		cleanupUploads(h.files, imageRef)
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := repository.ProductListQuery{
		ListQuery:  listQuery(c),
		CategoryID: queryUUID(c, "category_id"),
		BrandID:    queryUUID(c, "brand_id"),
	}
	products, meta, err := h.products.List(q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": meta, "data": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid product ID"})
	}
	detail, err := h.products.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": detail})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid product ID"})
	}
	if _, err := h.products.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) ListSimilar(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid product ID"})
	}
	similar, err := h.products.ListSimilar(id, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": similar})
}
