package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/ws"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

// CreateSkuInput carries the fields of a new SKU plus the normalized
// variation option selection.
type CreateSkuInput struct {
	ProductID        uuid.UUID
	Sku              string
	ProductSkuName   string
	Description      string
	Mrp              float64
	Price            float64
	Quantity         int
	IsNew            bool
	SingleOrderLimit int
	IsOutOfStock     bool
	Status           *int
	ThumbnailImage   string
	SkuImages        []string
	OptionIDs        []uuid.UUID
}

// UpdateSkuInput is partial: nil pointers leave the stored value untouched.
// OptionsSupplied distinguishes "replace the selection with OptionIDs" from
// "keep the current selection".
type UpdateSkuInput struct {
	ProductID        *uuid.UUID
	Sku              *string
	ProductSkuName   *string
	Description      *string
	Mrp              *float64
	Price            *float64
	Quantity         *int
	IsNew            *bool
	SingleOrderLimit *int
	IsOutOfStock     *bool
	Status           *int
	ThumbnailImage   *string
	RetainedImages   []string
	RetainedSupplied bool
	NewImages        []string
	OptionIDs        []uuid.UUID
	OptionsSupplied  bool
}

// SkuDetail is the read shape of a SKU with its resolved configuration.
type SkuDetail struct {
	model.ProductSku
	Configurations []model.ProductVariationConfiguration `json:"configurations"`
}

type SkuService interface {
	CreateWithVariation(input CreateSkuInput) (*model.ProductSku, error)
	UpdateWithVariation(skuID uuid.UUID, input UpdateSkuInput) (*model.ProductSku, error)
	Get(id uuid.UUID) (*SkuDetail, error)
	List(q repository.ListQuery, productID *uuid.UUID) ([]model.ProductSku, repository.PageMeta, error)
	Delete(id uuid.UUID) error
}

type skuService struct {
	db         *gorm.DB
	products   repository.ProductRepository
	variations repository.VariationRepository
	skus       repository.SkuRepository
	files      storage.FileStore
	hub        *ws.Hub
	log        *zap.Logger
}

func NewSkuService(
	db *gorm.DB,
	products repository.ProductRepository,
	variations repository.VariationRepository,
	skus repository.SkuRepository,
	files storage.FileStore,
	hub *ws.Hub,
	log *zap.Logger,
) SkuService {
	return &skuService{
		db:         db,
		products:   products,
		variations: variations,
		skus:       skus,
		files:      files,
		hub:        hub,
		log:        log,
	}
}

// validateSelection runs the configuration checks for one SKU write. It must
// be called inside tx, after the product row has been locked, so that two
// racing writers for the same product serialize on the lock and the second
// one re-observes the first one's rows.
//
// The rules, in order:
//  1. products with variation axes require at least one selected option
//  2. products without axes forbid a selection and allow at most one SKU
//  3. every selected option must chain back to the product
//  4. no two selected options may sit on the same axis
//  5. no existing SKU of the product may already carry the same option set
func (s *skuService) validateSelection(tx *gorm.DB, productID uuid.UUID, optionIDs []uuid.UUID, excludeSkuID *uuid.UUID) error {
	axisCount, err := s.variations.CountByProduct(tx, productID)
	if err != nil {
		return apperr.Unexpected(err)
	}

	if axisCount == 0 {
		if len(optionIDs) > 0 {
			return apperr.Validation("product has no variations; variation_option_ids must not be supplied")
		}
		skuCount, err := s.skus.CountByProduct(tx, productID)
		if err != nil {
			return apperr.Unexpected(err)
		}
		if excludeSkuID != nil && skuCount > 0 {
			skuCount--
		}
		if skuCount > 0 {
			return apperr.Conflict("product without variations can only have one SKU")
		}
		return nil
	}

	if len(optionIDs) == 0 {
		return apperr.Validation("at least one variation_option_id is required for this product")
	}

	seenAxes := make(map[uuid.UUID]bool, len(optionIDs))
	for _, optionID := range optionIDs {
		option, err := s.variations.FindOptionByID(tx, optionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("variation option %s does not exist", optionID)
			}
			return apperr.Unexpected(err)
		}

		variation, err := s.variations.FindVariationByID(tx, option.ProductVariationID)
		if err != nil {
			return apperr.Unexpected(err)
		}
		if option.ProductID != productID || variation.ProductID != productID {
			return apperr.Validation("variation option %s does not belong to this product", optionID)
		}

		if seenAxes[variation.ID] {
			return apperr.Validation("two options selected on the same variation %q", variation.Name)
		}
		seenAxes[variation.ID] = true
	}

	existing, err := s.skus.ConfigurationsByProduct(tx, productID)
	if err != nil {
		return apperr.Unexpected(err)
	}
	bySku := make(map[uuid.UUID][]uuid.UUID)
	for _, row := range existing {
		if excludeSkuID != nil && row.ProductSkuID == *excludeSkuID {
			continue
		}
		bySku[row.ProductSkuID] = append(bySku[row.ProductSkuID], row.ProductVariationOptionID)
	}
	for _, optionSet := range bySku {
		if sameIDSet(optionSet, optionIDs) {
			return apperr.Conflict("a SKU with the same variation configuration already exists")
		}
	}

	return nil
}

func sameIDSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func (s *skuService) CreateWithVariation(input CreateSkuInput) (*model.ProductSku, error) {
	if input.Sku == "" || input.ProductSkuName == "" {
		return nil, apperr.Validation("sku and product_sku_name are required")
	}
	if input.Mrp <= 0 || input.Price <= 0 {
		return nil, apperr.Validation("mrp and price must be greater than zero")
	}
	if input.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}
	status := model.StatusActive
	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		status = *input.Status
	}

	sku := &model.ProductSku{
		Sku:              input.Sku,
		ProductID:        input.ProductID,
		ProductSkuName:   input.ProductSkuName,
		Description:      input.Description,
		ThumbnailImage:   input.ThumbnailImage,
		SkuImages:        input.SkuImages,
		Mrp:              input.Mrp,
		Price:            input.Price,
		Quantity:         input.Quantity,
		IsNew:            input.IsNew,
		SingleOrderLimit: input.SingleOrderLimit,
		IsOutOfStock:     input.IsOutOfStock,
		Status:           status,
	}
	if sku.SingleOrderLimit <= 0 {
		sku.SingleOrderLimit = 1
	}
	if err := validateModel(sku); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.products.FindForUpdate(tx, input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Unexpected(err)
		}

		if err := s.validateSelection(tx, input.ProductID, input.OptionIDs, nil); err != nil {
			return err
		}

		if _, err := s.skus.FindByCode(tx, input.ProductID, input.Sku, nil); err == nil {
			return apperr.Conflict("SKU code already exists for this product")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unexpected(err)
		}

		if err := s.skus.Create(tx, sku); err != nil {
			return translateStoreErr(err)
		}

		return s.createConfigurations(tx, sku, input.OptionIDs)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("sku_created", "product_sku", sku.ID.String(), sku.ProductSkuName)
	return sku, nil
}

func (s *skuService) createConfigurations(tx *gorm.DB, sku *model.ProductSku, optionIDs []uuid.UUID) error {
	rows := make([]model.ProductVariationConfiguration, 0, len(optionIDs))
	for _, optionID := range optionIDs {
		option, err := s.variations.FindOptionByID(tx, optionID)
		if err != nil {
			return apperr.Unexpected(err)
		}
		rows = append(rows, model.ProductVariationConfiguration{
			ProductID:                sku.ProductID,
			ProductSkuID:             sku.ID,
			ProductVariationID:       option.ProductVariationID,
			ProductVariationOptionID: option.ID,
			Status:                   model.StatusActive,
		})
	}
	if err := s.skus.CreateConfigurations(tx, rows); err != nil {
		return translateStoreErr(err)
	}
	return nil
}

func (s *skuService) UpdateWithVariation(skuID uuid.UUID, input UpdateSkuInput) (*model.ProductSku, error) {
	sku, err := s.skus.FindByID(skuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product SKU not found")
		}
		return nil, apperr.Unexpected(err)
	}
	sku.Product = nil

	oldThumbnail := sku.ThumbnailImage
	oldImages := sku.SkuImages

	if input.Status != nil && !model.ValidStatus(*input.Status) {
		return nil, apperr.Validation("status must be 0 or 1")
	}

	targetProduct := sku.ProductID
	if input.ProductID != nil {
		targetProduct = *input.ProductID
	}

	// selection to validate: the supplied one, or the SKU's current one when
	// the request leaves it out
	optionIDs := input.OptionIDs
	if !input.OptionsSupplied {
		current, err := s.skus.ConfigurationsBySku(sku.ID)
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		for _, row := range current {
			optionIDs = append(optionIDs, row.ProductVariationOptionID)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.products.FindForUpdate(tx, targetProduct); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Unexpected(err)
		}

		if err := s.validateSelection(tx, targetProduct, optionIDs, &sku.ID); err != nil {
			return err
		}

		code := sku.Sku
		if input.Sku != nil {
			code = *input.Sku
			if code == "" {
				return apperr.Validation("sku cannot be empty")
			}
		}
		if _, err := s.skus.FindByCode(tx, targetProduct, code, &sku.ID); err == nil {
			return apperr.Conflict("SKU code already exists for this product")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unexpected(err)
		}

		sku.ProductID = targetProduct
		sku.Sku = code
		if input.ProductSkuName != nil {
			if *input.ProductSkuName == "" {
				return apperr.Validation("product_sku_name cannot be empty")
			}
			sku.ProductSkuName = *input.ProductSkuName
		}
		if input.Description != nil {
			sku.Description = *input.Description
		}
		if input.Mrp != nil {
			if *input.Mrp <= 0 {
				return apperr.Validation("mrp must be greater than zero")
			}
			sku.Mrp = *input.Mrp
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				return apperr.Validation("price must be greater than zero")
			}
			sku.Price = *input.Price
		}
		if input.Quantity != nil {
			if *input.Quantity < 0 {
				return apperr.Validation("quantity cannot be negative")
			}
			sku.Quantity = *input.Quantity
		}
		if input.IsNew != nil {
			sku.IsNew = *input.IsNew
		}
		if input.SingleOrderLimit != nil && *input.SingleOrderLimit > 0 {
			sku.SingleOrderLimit = *input.SingleOrderLimit
		}
		if input.IsOutOfStock != nil {
			sku.IsOutOfStock = *input.IsOutOfStock
		}
		if input.Status != nil {
			sku.Status = *input.Status
		}
		if input.ThumbnailImage != nil {
			sku.ThumbnailImage = *input.ThumbnailImage
		}
		// merge retained and newly uploaded gallery images; a full
		// re-submission is not required
		if input.RetainedSupplied || len(input.NewImages) > 0 {
			retained := input.RetainedImages
			if !input.RetainedSupplied {
				retained = oldImages
			}
			sku.SkuImages = append(append([]string{}, retained...), input.NewImages...)
		}

		if err := s.skus.Save(tx, sku); err != nil {
			return translateStoreErr(err)
		}

		// replace the configuration rows wholesale
		if err := s.skus.DeleteConfigurationsBySku(tx, sku.ID); err != nil {
			return translateStoreErr(err)
		}
		return s.createConfigurations(tx, sku, optionIDs)
	})
	if err != nil {
		return nil, err
	}

	// the transaction committed; drop files that are no longer referenced
	if input.ThumbnailImage != nil && oldThumbnail != "" && oldThumbnail != sku.ThumbnailImage {
		s.removeFile(oldThumbnail)
	}
	kept := make(map[string]bool, len(sku.SkuImages))
	for _, ref := range sku.SkuImages {
		kept[ref] = true
	}
	for _, ref := range oldImages {
		if !kept[ref] {
			s.removeFile(ref)
		}
	}

	s.hub.Notify("sku_updated", "product_sku", sku.ID.String(), sku.ProductSkuName)
	return sku, nil
}

func (s *skuService) Get(id uuid.UUID) (*SkuDetail, error) {
	sku, err := s.skus.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product SKU not found")
		}
		return nil, apperr.Unexpected(err)
	}
	configs, err := s.skus.ConfigurationsBySku(id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &SkuDetail{ProductSku: *sku, Configurations: configs}, nil
}

func (s *skuService) List(q repository.ListQuery, productID *uuid.UUID) ([]model.ProductSku, repository.PageMeta, error) {
	skus, total, err := s.skus.List(q, productID)
	if err != nil {
		return nil, repository.PageMeta{}, apperr.Unexpected(err)
	}
	q.Normalize()
	return skus, repository.NewPageMeta(q, total), nil
}

// Delete removes the SKU and its own configuration rows, then its files.
func (s *skuService) Delete(id uuid.UUID) error {
	sku, err := s.skus.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product SKU not found")
		}
		return apperr.Unexpected(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.skus.DeleteConfigurationsBySku(tx, id); err != nil {
			return translateStoreErr(err)
		}
		if err := s.skus.Delete(tx, id); err != nil {
			return translateStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFile(sku.ThumbnailImage)
	for _, ref := range sku.SkuImages {
		s.removeFile(ref)
	}

	s.hub.Notify("sku_deleted", "product_sku", id.String(), sku.ProductSkuName)
	return nil
}

// removeFile is best-effort cleanup; a failed delete is logged, never
// surfaced.
func (s *skuService) removeFile(ref string) {
	if ref == "" {
		return
	}
	if err := s.files.Delete(ref); err != nil {
		s.log.Warn("failed to delete upload", zap.String("ref", ref), zap.Error(err))
	}
}
