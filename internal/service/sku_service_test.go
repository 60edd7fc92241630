package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

func colorSizeAxes() []model.VariationInput {
	return []model.VariationInput{
		{VariationName: "Color", Options: []string{"Red", "Blue"}},
		{VariationName: "Size", Options: []string{"S", "M"}},
	}
}

func TestCreateSku_SimpleProductAllowsOnlyOne(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Tools")
	product, _ := f.seedProduct(t, "Hammer", cat, nil)

	f.createSku(t, product.ID, "HAM-1")

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "HAM-2",
		ProductSkuName: "Hammer 2",
		Mrp:            10,
		Price:          8,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateSku_SimpleProductRejectsOptions(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Tools")
	product, _ := f.seedProduct(t, "Hammer", cat, nil)

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "HAM-1",
		ProductSkuName: "Hammer",
		Mrp:            10,
		Price:          8,
		OptionIDs:      []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSku_VariationsRequireSelection(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, _ := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "TEE-1",
		ProductSkuName: "Tee",
		Mrp:            20,
		Price:          15,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSku_RejectsTwoOptionsOnSameAxis(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "TEE-1",
		ProductSkuName: "Tee",
		Mrp:            20,
		Price:          15,
		OptionIDs:      []uuid.UUID{opts["Color/Red"], opts["Color/Blue"]},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSku_RejectsForeignProductOption(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, _ := f.seedProduct(t, "Tee", cat, colorSizeAxes())
	_, otherOpts := f.seedProduct(t, "Polo", cat, colorSizeAxes())

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "TEE-1",
		ProductSkuName: "Tee",
		Mrp:            20,
		Price:          15,
		OptionIDs:      []uuid.UUID{otherOpts["Color/Red"]},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSku_DuplicateConfigurationConflicts(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	f.createSku(t, product.ID, "TEE-RED-S", opts["Color/Red"], opts["Size/S"])

	// same option set, different code
	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "TEE-OTHER",
		ProductSkuName: "Tee Other",
		Mrp:            20,
		Price:          15,
		OptionIDs:      []uuid.UUID{opts["Size/S"], opts["Color/Red"]},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// distinct set is fine
	sku := f.createSku(t, product.ID, "TEE-RED-M", opts["Color/Red"], opts["Size/M"])
	assert.NotEqual(t, uuid.Nil, sku.ID)
}

func TestCreateSku_DuplicateCodeWithinProduct(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())
	other, otherOpts := f.seedProduct(t, "Polo", cat, colorSizeAxes())

	f.createSku(t, product.ID, "SKU-1", opts["Color/Red"], opts["Size/S"])

	_, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "SKU-1",
		ProductSkuName: "dup",
		Mrp:            20,
		Price:          15,
		OptionIDs:      []uuid.UUID{opts["Color/Blue"], opts["Size/S"]},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// the same code on another product is allowed
	sku := f.createSku(t, other.ID, "SKU-1", otherOpts["Color/Red"], otherOpts["Size/S"])
	assert.NotEqual(t, uuid.Nil, sku.ID)
}

func TestUpdateSku_ReplacesConfiguration(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	sku := f.createSku(t, product.ID, "TEE-RED-S", opts["Color/Red"], opts["Size/S"])

	newPrice := 42.0
	updated, err := f.skuSvc.UpdateWithVariation(sku.ID, UpdateSkuInput{
		Price:           &newPrice,
		OptionIDs:       []uuid.UUID{opts["Color/Blue"], opts["Size/M"]},
		OptionsSupplied: true,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)

	detail, err := f.skuSvc.Get(sku.ID)
	require.NoError(t, err)
	require.Len(t, detail.Configurations, 2)
	got := map[uuid.UUID]bool{}
	for _, row := range detail.Configurations {
		got[row.ProductVariationOptionID] = true
	}
	assert.True(t, got[opts["Color/Blue"]])
	assert.True(t, got[opts["Size/M"]])
	assert.False(t, got[opts["Color/Red"]])
}

func TestUpdateSku_KeepsSelectionWhenNotSupplied(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	sku := f.createSku(t, product.ID, "TEE-RED-S", opts["Color/Red"], opts["Size/S"])

	qty := 99
	_, err := f.skuSvc.UpdateWithVariation(sku.ID, UpdateSkuInput{Quantity: &qty})
	require.NoError(t, err)

	detail, err := f.skuSvc.Get(sku.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, detail.Quantity)
	assert.Len(t, detail.Configurations, 2)
}

func TestUpdateSku_DuplicateConfigurationConflicts(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	f.createSku(t, product.ID, "TEE-RED-S", opts["Color/Red"], opts["Size/S"])
	second := f.createSku(t, product.ID, "TEE-BLUE-S", opts["Color/Blue"], opts["Size/S"])

	_, err := f.skuSvc.UpdateWithVariation(second.ID, UpdateSkuInput{
		OptionIDs:       []uuid.UUID{opts["Color/Red"], opts["Size/S"]},
		OptionsSupplied: true,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeleteSku_RemovesConfigurationsAndFiles(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	sku, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      product.ID,
		Sku:            "TEE-RED-S",
		ProductSkuName: "Tee Red S",
		Mrp:            20,
		Price:          15,
		ThumbnailImage: "/uploads/product_sku/thumb.png",
		SkuImages:      []string{"/uploads/product_sku/a.png", "/uploads/product_sku/b.png"},
		OptionIDs:      []uuid.UUID{opts["Color/Red"], opts["Size/S"]},
	})
	require.NoError(t, err)

	require.NoError(t, f.skuSvc.Delete(sku.ID))

	_, err = f.skuSvc.Get(sku.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var configs int64
	f.db.Model(&model.ProductVariationConfiguration{}).Where("product_sku_id = ?", sku.ID).Count(&configs)
	assert.Zero(t, configs)
	assert.ElementsMatch(t, []string{
		"/uploads/product_sku/thumb.png",
		"/uploads/product_sku/a.png",
		"/uploads/product_sku/b.png",
	}, f.files.Deleted)
}
