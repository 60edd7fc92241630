package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/ws"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

const (
	similarDefaultLimit = 10
	similarMaxLimit     = 50
)

// CreateProductInput carries a new product plus its variation definition.
// Which category fields are required depends on the configured CategoryMode.
type CreateProductInput struct {
	ProductName     string
	ProductImage    string
	CategoryID      *uuid.UUID
	CategoryIDs     []uuid.UUID
	SubCategoryID   *uuid.UUID
	InnerCategoryID *uuid.UUID
	BrandID         *uuid.UUID
	Features        []model.Feature
	Advantages      []string
	Status          *int
	Variations      []model.VariationInput
}

// UpdateProductInput is partial: nil pointers / unset flags retain the stored
// value. BrandSupplied with a nil BrandID clears the brand reference.
type UpdateProductInput struct {
	ProductName        *string
	ProductImage       *string
	CategoryID         *uuid.UUID
	CategoryIDs        []uuid.UUID
	CategoryIDsSet     bool
	SubCategoryID      *uuid.UUID
	InnerCategoryID    *uuid.UUID
	BrandID            *uuid.UUID
	BrandSupplied      bool
	Features           []model.Feature
	FeaturesSupplied   bool
	Advantages         []string
	AdvantagesSupplied bool
	Status             *int
	Variations         []model.VariationInput
	VariationsSupplied bool
}

// ProductDetail is the read shape: the aggregate with its variation axes.
type ProductDetail struct {
	model.Product
	Variations []repository.VariationWithOptions `json:"variations"`
}

// SimilarProduct is one similar-products result with its active SKUs
// attached.
type SimilarProduct struct {
	model.Product
	Skus []model.ProductSku `json:"skus"`
}

type ProductService interface {
	Create(input CreateProductInput) (*model.Product, error)
	Update(id uuid.UUID, input UpdateProductInput) (*model.Product, error)
	Get(id uuid.UUID) (*ProductDetail, error)
	List(q repository.ProductListQuery) ([]model.Product, repository.PageMeta, error)
	Delete(id uuid.UUID) (uuid.UUID, error)
	ListSimilar(productID uuid.UUID, limit int) ([]SimilarProduct, error)
}

type productService struct {
	db         *gorm.DB
	mode       model.CategoryMode
	products   repository.ProductRepository
	variations repository.VariationRepository
	skus       repository.SkuRepository
	categories repository.CategoryRepository
	subs       repository.SubCategoryRepository
	inners     repository.InnerCategoryRepository
	brands     repository.BrandRepository
	files      storage.FileStore
	hub        *ws.Hub
	log        *zap.Logger
}

func NewProductService(
	db *gorm.DB,
	mode model.CategoryMode,
	products repository.ProductRepository,
	variations repository.VariationRepository,
	skus repository.SkuRepository,
	categories repository.CategoryRepository,
	subs repository.SubCategoryRepository,
	inners repository.InnerCategoryRepository,
	brands repository.BrandRepository,
	files storage.FileStore,
	hub *ws.Hub,
	log *zap.Logger,
) ProductService {
	return &productService{
		db:         db,
		mode:       mode,
		products:   products,
		variations: variations,
		skus:       skus,
		categories: categories,
		subs:       subs,
		inners:     inners,
		brands:     brands,
		files:      files,
		hub:        hub,
		log:        log,
	}
}

// resolveCategories validates the category linkage for the configured mode
// and returns the multi-mode category list when applicable.
func (s *productService) resolveCategories(categoryID *uuid.UUID, categoryIDs []uuid.UUID, subID, innerID *uuid.UUID) ([]model.Category, error) {
	switch s.mode {
	case model.CategoryMulti:
		if len(categoryIDs) == 0 {
			return nil, apperr.Validation("at least one category_id is required")
		}
		cats := make([]model.Category, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			cat, err := s.categories.FindByID(id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperr.Validation("invalid category_id: %s", id)
				}
				return nil, apperr.Unexpected(err)
			}
			cats = append(cats, *cat)
		}
		return cats, nil

	case model.CategoryHierarchical:
		if categoryID == nil || subID == nil || innerID == nil {
			return nil, apperr.Validation("category_id, sub_category_id and inner_category_id are required")
		}
		if _, err := s.categories.FindByID(*categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("invalid category_id")
			}
			return nil, apperr.Unexpected(err)
		}
		sub, err := s.subs.FindByID(*subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("invalid sub_category_id")
			}
			return nil, apperr.Unexpected(err)
		}
		if sub.CategoryID != *categoryID {
			return nil, apperr.Validation("sub_category does not belong to the supplied category")
		}
		inner, err := s.inners.FindByID(*innerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("invalid inner_category_id")
			}
			return nil, apperr.Unexpected(err)
		}
		if inner.SubCategoryID != *subID || inner.CategoryID != *categoryID {
			return nil, apperr.Validation("inner_category does not belong to the supplied sub_category")
		}
		return nil, nil

	default: // CategorySingle
		if categoryID == nil {
			return nil, apperr.Validation("category_id is required")
		}
		if _, err := s.categories.FindByID(*categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("invalid category_id")
			}
			return nil, apperr.Unexpected(err)
		}
		return nil, nil
	}
}

func (s *productService) checkBrand(brandID *uuid.UUID) error {
	if brandID == nil {
		return nil // brand is optional, null allowed
	}
	if _, err := s.brands.FindByID(*brandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("invalid brand_id")
		}
		return apperr.Unexpected(err)
	}
	return nil
}

func validateFeatures(features []model.Feature) ([]model.Feature, error) {
	out := make([]model.Feature, 0, len(features))
	for _, f := range features {
		f.Option = strings.TrimSpace(f.Option)
		f.Value = strings.TrimSpace(f.Value)
		if f.Option == "" || f.Value == "" {
			return nil, apperr.Validation("each feature requires both option and value")
		}
		out = append(out, f)
	}
	return out, nil
}

func trimAdvantages(advantages []string) []string {
	out := make([]string, 0, len(advantages))
	for _, a := range advantages {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (s *productService) Create(input CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, apperr.Validation("product_name is required")
	}

	status := model.StatusActive
	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		status = *input.Status
	}

	multiCats, err := s.resolveCategories(input.CategoryID, input.CategoryIDs, input.SubCategoryID, input.InnerCategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBrand(input.BrandID); err != nil {
		return nil, err
	}
	features, err := validateFeatures(input.Features)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductName:     name,
		ProductImage:    input.ProductImage,
		CategoryID:      input.CategoryID,
		SubCategoryID:   input.SubCategoryID,
		InnerCategoryID: input.InnerCategoryID,
		BrandID:         input.BrandID,
		Features:        features,
		Advantages:      trimAdvantages(input.Advantages),
		Status:          status,
	}
	if err := validateModel(product); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.Create(tx, product); err != nil {
			return translateStoreErr(err)
		}
		if len(multiCats) > 0 {
			if err := s.products.ReplaceCategories(tx, product, multiCats); err != nil {
				return translateStoreErr(err)
			}
		}
		return s.createVariations(tx, product.ID, input.Variations)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("product_created", "product", product.ID.String(), product.ProductName)
	return product, nil
}

// createVariations persists the axes and their options. Blank option names
// are skipped silently; a blank axis name is a validation error.
func (s *productService) createVariations(tx *gorm.DB, productID uuid.UUID, inputs []model.VariationInput) error {
	for _, in := range inputs {
		axisName := strings.TrimSpace(in.VariationName)
		if axisName == "" {
			return apperr.Validation("variation_name is required")
		}
		variation := &model.ProductVariation{
			Name:      axisName,
			ProductID: productID,
			Status:    model.StatusActive,
		}
		if err := s.variations.CreateVariation(tx, variation); err != nil {
			return translateStoreErr(err)
		}
		for _, optName := range in.Options {
			if optName = strings.TrimSpace(optName); optName == "" {
				continue
			}
			option := &model.ProductVariationOption{
				Name:               optName,
				ProductID:          productID,
				ProductVariationID: variation.ID,
				Status:             model.StatusActive,
			}
			if err := s.variations.CreateOption(tx, option); err != nil {
				return translateStoreErr(err)
			}
		}
	}
	return nil
}

func (s *productService) Update(id uuid.UUID, input UpdateProductInput) (*model.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Unexpected(err)
	}
	oldImage := product.ProductImage

	if input.ProductName != nil {
		name := strings.TrimSpace(*input.ProductName)
		if name == "" {
			return nil, apperr.Validation("product_name cannot be empty")
		}
		product.ProductName = name
	}
	if input.Status != nil {
		if !model.ValidStatus(*input.Status) {
			return nil, apperr.Validation("status must be 0 or 1")
		}
		product.Status = *input.Status
	}

	var multiCats []model.Category
	categoryTouched := input.CategoryID != nil || input.CategoryIDsSet ||
		input.SubCategoryID != nil || input.InnerCategoryID != nil
	if categoryTouched {
		categoryID := input.CategoryID
		if categoryID == nil {
			categoryID = product.CategoryID
		}
		subID := input.SubCategoryID
		if subID == nil {
			subID = product.SubCategoryID
		}
		innerID := input.InnerCategoryID
		if innerID == nil {
			innerID = product.InnerCategoryID
		}
		multiCats, err = s.resolveCategories(categoryID, input.CategoryIDs, subID, innerID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
		product.SubCategoryID = subID
		product.InnerCategoryID = innerID
	}

	if input.BrandSupplied {
		if err := s.checkBrand(input.BrandID); err != nil {
			return nil, err
		}
		product.BrandID = input.BrandID
	}
	if input.FeaturesSupplied {
		features, err := validateFeatures(input.Features)
		if err != nil {
			return nil, err
		}
		product.Features = features
	}
	if input.AdvantagesSupplied {
		product.Advantages = trimAdvantages(input.Advantages)
	}
	if input.ProductImage != nil {
		product.ProductImage = *input.ProductImage
	}

	// detach preloaded associations so Save only writes the product row
	product.Category = nil
	product.Categories = nil
	product.SubCategory = nil
	product.InnerCategory = nil
	product.Brand = nil

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.VariationsSupplied {
			skuCount, err := s.skus.CountByProduct(tx, product.ID)
			if err != nil {
				return apperr.Unexpected(err)
			}
			if skuCount > 0 {
				return apperr.Validation("cannot redefine variations while the product has SKUs")
			}
			if err := s.variations.DeleteByProduct(tx, product.ID); err != nil {
				return translateStoreErr(err)
			}
			if err := s.createVariations(tx, product.ID, input.Variations); err != nil {
				return err
			}
		}
		if err := s.products.Save(tx, product); err != nil {
			return translateStoreErr(err)
		}
		if input.CategoryIDsSet {
			if err := s.products.ReplaceCategories(tx, product, multiCats); err != nil {
				return translateStoreErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.ProductImage != nil && oldImage != "" && oldImage != product.ProductImage {
		s.removeFile(oldImage)
	}

	s.hub.Notify("product_updated", "product", product.ID.String(), product.ProductName)
	return product, nil
}

func (s *productService) Get(id uuid.UUID) (*ProductDetail, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Unexpected(err)
	}
	variations, err := s.variations.FindByProduct(id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &ProductDetail{Product: *product, Variations: variations}, nil
}

func (s *productService) List(q repository.ProductListQuery) ([]model.Product, repository.PageMeta, error) {
	products, total, err := s.products.List(q)
	if err != nil {
		return nil, repository.PageMeta{}, apperr.Unexpected(err)
	}
	q.Normalize()
	return products, repository.NewPageMeta(q.ListQuery, total), nil
}

// Delete cascades through the aggregate in a fixed order: configurations,
// then SKUs, then options and variations, then the product itself. A SKU row
// must never outlive its product.
func (s *productService) Delete(id uuid.UUID) (uuid.UUID, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperr.NotFound("product not found")
		}
		return uuid.Nil, apperr.Unexpected(err)
	}

	// snapshot the SKU files before the rows disappear
	skuRows, _, err := s.skus.List(repository.ListQuery{Page: 1, Limit: 100}, &id)
	if err != nil {
		return uuid.Nil, apperr.Unexpected(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.skus.DeleteConfigurationsByProduct(tx, id); err != nil {
			return translateStoreErr(err)
		}
		if err := s.skus.DeleteByProduct(tx, id); err != nil {
			return translateStoreErr(err)
		}
		if err := s.variations.DeleteByProduct(tx, id); err != nil {
			return translateStoreErr(err)
		}
		if err := s.products.Delete(tx, id); err != nil {
			return translateStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.removeFile(product.ProductImage)
	for _, sku := range skuRows {
		s.removeFile(sku.ThumbnailImage)
		for _, ref := range sku.SkuImages {
			s.removeFile(ref)
		}
	}

	s.hub.Notify("product_deleted", "product", id.String(), product.ProductName)
	return id, nil
}

// ListSimilar accumulates up to limit other active products through four
// progressively looser filters: same category and brand, same category, same
// brand, then any. Only products with at least one active SKU qualify; their
// active SKUs ride along on the result.
func (s *productService) ListSimilar(productID uuid.UUID, limit int) ([]SimilarProduct, error) {
	if limit <= 0 {
		limit = similarDefaultLimit
	}
	if limit > similarMaxLimit {
		limit = similarMaxLimit
	}

	source, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Unexpected(err)
	}

	type stage struct {
		categoryID *uuid.UUID
		brandID    *uuid.UUID
	}
	stages := []stage{}
	if source.CategoryID != nil && source.BrandID != nil {
		stages = append(stages, stage{source.CategoryID, source.BrandID})
	}
	if source.CategoryID != nil {
		stages = append(stages, stage{source.CategoryID, nil})
	}
	if source.BrandID != nil {
		stages = append(stages, stage{nil, source.BrandID})
	}
	stages = append(stages, stage{nil, nil})

	exclude := []uuid.UUID{productID}
	results := make([]SimilarProduct, 0, limit)

	for _, st := range stages {
		if len(results) >= limit {
			break
		}
		candidates, err := s.products.FindSimilar(repository.SimilarFilter{
			CategoryID: st.categoryID,
			BrandID:    st.brandID,
			ExcludeIDs: exclude,
		})
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		for _, candidate := range candidates {
			if len(results) >= limit {
				break
			}
			exclude = append(exclude, candidate.ID)
			skus, err := s.skus.FindActiveByProduct(candidate.ID)
			if err != nil {
				return nil, apperr.Unexpected(err)
			}
			if len(skus) == 0 {
				continue
			}
			results = append(results, SimilarProduct{Product: candidate, Skus: skus})
		}
	}

	return results, nil
}

func (s *productService) removeFile(ref string) {
	if ref == "" {
		return
	}
	if err := s.files.Delete(ref); err != nil {
		s.log.Warn("failed to delete upload", zap.String("ref", ref), zap.Error(err))
	}
}
