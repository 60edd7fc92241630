package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/service"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

type SkuHandler struct {
	skus  service.SkuService
	files storage.FileStore
	log   *zap.Logger
}

func NewSkuHandler(skus service.SkuService, files storage.FileStore, log *zap.Logger) *SkuHandler {
	return &SkuHandler{skus: skus, files: files, log: log}
}

// optionIDValues collects every variation_option_ids value from the multipart
// form, including repeated and bracket-indexed field names
// (variation_option_ids[0], variation_option_ids[]).
func optionIDValues(c *fiber.Ctx) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, false
	}
	var raw []string
	found := false
	for key, values := range form.Value {
		if key == "variation_option_ids" || strings.HasPrefix(key, "variation_option_ids[") {
			found = true
			raw = append(raw, values...)
		}
	}
	return raw, found
}

func formFloat(c *fiber.Ctx, field string) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation("%s must be a number", field)
	}
	return &v, nil
}

func formInt(c *fiber.Ctx, field string) (*int, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a number", field)
	}
	return &v, nil
}

func formBool(c *fiber.Ctx, field string) *bool {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return nil
	}
	v := raw == "true" || raw == "1"
	return &v
}

// saveGallery stages every file sent under sku_images. The caller owns
// cleanup of the returned refs when the request fails later.
func (h *SkuHandler) saveGallery(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	var refs []string
	for key, headers := range form.File {
		if key != "sku_images" && !strings.HasPrefix(key, "sku_images[") {
			continue
		}
		for _, fh := range headers {
			ref, err := storeHeader(h.files, fh, "product_sku")
			if err != nil {
				cleanupUploads(h.files, refs...)
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func parseRetainedImages(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var refs []string
		if err := json.Unmarshal([]byte(raw), &refs); err != nil {
			return nil, apperr.Validation("retained_images must be a JSON array of strings")
		}
		return refs, nil
	}
	var refs []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			refs = append(refs, part)
		}
	}
	return refs, nil
}

func (h *SkuHandler) Create(c *fiber.Ctx) error {
	productID, err := parseUUID(c.FormValue("product_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	input := service.CreateSkuInput{
		ProductID:      productID,
		Sku:            c.FormValue("sku"),
		ProductSkuName: c.FormValue("product_sku_name"),
		Description:    c.FormValue("description"),
	}

	if mrp, err := formFloat(c, "mrp"); err != nil {
		return respondError(c, h.log, err)
	} else if mrp != nil {
		input.Mrp = *mrp
	}
	if price, err := formFloat(c, "price"); err != nil {
		return respondError(c, h.log, err)
	} else if price != nil {
		input.Price = *price
	}
	if qty, err := formInt(c, "quantity"); err != nil {
		return respondError(c, h.log, err)
	} else if qty != nil {
		input.Quantity = *qty
	}
	if limit, err := formInt(c, "single_order_limit"); err != nil {
		return respondError(c, h.log, err)
	} else if limit != nil {
		input.SingleOrderLimit = *limit
	}
	if v := formBool(c, "is_new"); v != nil {
		input.IsNew = *v
	}
	if v := formBool(c, "is_out_of_stock"); v != nil {
		input.IsOutOfStock = *v
	}
	if input.Status, err = statusFromForm(c); err != nil {
		return respondError(c, h.log, err)
	}

	if raw, _ := optionIDValues(c); len(raw) > 0 {
		input.OptionIDs, err = service.NormalizeOptionIDs(raw)
		if err != nil {
			return respondError(c, h.log, err)
		}
	}

	thumbRef, err := saveUpload(c, h.files, "thumbnail_image", "product_sku")
	if err != nil {
		return respondError(c, h.log, err)
	}
	input.ThumbnailImage = thumbRef

	galleryRefs, err := h.saveGallery(c)
	if err != nil {
		cleanupUploads(h.files, thumbRef)
		return respondError(c, h.log, err)
	}
	input.SkuImages = galleryRefs

	sku, err := h.skus.CreateWithVariation(input)
	if err != nil {
		cleanupUploads(h.files, append(galleryRefs, thumbRef)...)
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product SKU created", "data": sku})
}

func (h *SkuHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid SKU ID"})
	}

	input := service.UpdateSkuInput{}

	if input.ProductID, err = formUUID(c, "product_id"); err != nil {
		return respondError(c, h.log, err)
	}
	if v := c.FormValue("sku"); v != "" {
		input.Sku = &v
	}
	if v := c.FormValue("product_sku_name"); v != "" {
		input.ProductSkuName = &v
	}
	if formHas(c, "description") {
		input.Description = strPtr(c.FormValue("description"))
	}
	if input.Mrp, err = formFloat(c, "mrp"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Price, err = formFloat(c, "price"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.Quantity, err = formInt(c, "quantity"); err != nil {
		return respondError(c, h.log, err)
	}
	if input.SingleOrderLimit, err = formInt(c, "single_order_limit"); err != nil {
		return respondError(c, h.log, err)
	}
	input.IsNew = formBool(c, "is_new")
	input.IsOutOfStock = formBool(c, "is_out_of_stock")
	if input.Status, err = statusFromForm(c); err != nil {
		return respondError(c, h.log, err)
	}

	if raw, found := optionIDValues(c); found {
		input.OptionsSupplied = true
		input.OptionIDs, err = service.NormalizeOptionIDs(raw)
		if err != nil {
			return respondError(c, h.log, err)
		}
	}

	if formHas(c, "retained_images") {
		input.RetainedSupplied = true
		if input.RetainedImages, err = parseRetainedImages(c.FormValue("retained_images")); err != nil {
			return respondError(c, h.log, err)
		}
	}

	thumbRef, err := saveUpload(c, h.files, "thumbnail_image", "product_sku")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if thumbRef != "" {
		input.ThumbnailImage = &thumbRef
	}

	galleryRefs, err := h.saveGallery(c)
	if err != nil {
		cleanupUploads(h.files, thumbRef)
		return respondError(c, h.log, err)
	}
	input.NewImages = galleryRefs

	sku, err := h.skus.UpdateWithVariation(id, input)
	if err != nil {
		cleanupUploads(h.files, append(galleryRefs, thumbRef)...)
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product SKU updated", "data": sku})
}

func (h *SkuHandler) List(c *fiber.Ctx) error {
	skus, meta, err := h.skus.List(listQuery(c), queryUUID(c, "product_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"meta": meta, "data": skus})
}

func (h *SkuHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid SKU ID"})
	}
	detail, err := h.skus.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": detail})
}

func (h *SkuHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid SKU ID"})
	}
	if err := h.skus.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product SKU deleted"})
}
