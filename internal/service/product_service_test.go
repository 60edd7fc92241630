package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

func TestCreateProduct_RequiresCategory(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)

	_, err := f.productSvc.Create(CreateProductInput{ProductName: "Lamp"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_RejectsUnknownCategory(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)

	bogus := uuid.New()
	_, err := f.productSvc.Create(CreateProductInput{ProductName: "Lamp", CategoryID: &bogus})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_RejectsIncompleteFeature(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Lighting")

	_, err := f.productSvc.Create(CreateProductInput{
		ProductName: "Lamp",
		CategoryID:  &cat.ID,
		Features:    []model.Feature{{Option: "Material", Value: "  "}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_PersistsVariationAxes(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")

	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())
	assert.Len(t, opts, 4)

	detail, err := f.productSvc.Get(product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Variations, 2)
}

func TestCreateProduct_HierarchicalChainValidation(t *testing.T) {
	f := newServiceFixture(t, model.CategoryHierarchical)
	cat := f.seedCategory(t, "Electronics")
	otherCat := f.seedCategory(t, "Furniture")

	sub := &model.SubCategory{SubCategoryName: "Phones", CategoryID: cat.ID, Status: model.StatusActive}
	require.NoError(t, f.subs.Create(sub))
	inner := &model.InnerCategory{
		InnerCategoryName: "Smartphones",
		CategoryID:        cat.ID,
		SubCategoryID:     sub.ID,
		Status:            model.StatusActive,
	}
	require.NoError(t, f.inners.Create(inner))

	// sub belongs to cat, not otherCat
	_, err := f.productSvc.Create(CreateProductInput{
		ProductName:     "Phone",
		CategoryID:      &otherCat.ID,
		SubCategoryID:   &sub.ID,
		InnerCategoryID: &inner.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	product, err := f.productSvc.Create(CreateProductInput{
		ProductName:     "Phone",
		CategoryID:      &cat.ID,
		SubCategoryID:   &sub.ID,
		InnerCategoryID: &inner.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
}

func TestUpdateProduct_BlocksVariationRedefinitionWithSkus(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())
	f.createSku(t, product.ID, "TEE-1", opts["Color/Red"], opts["Size/S"])

	_, err := f.productSvc.Update(product.ID, UpdateProductInput{
		Variations:         []model.VariationInput{{VariationName: "Fit", Options: []string{"Slim"}}},
		VariationsSupplied: true,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateProduct_RedefinesVariationsWithoutSkus(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, _ := f.seedProduct(t, "Tee", cat, colorSizeAxes())

	_, err := f.productSvc.Update(product.ID, UpdateProductInput{
		Variations:         []model.VariationInput{{VariationName: "Fit", Options: []string{"Slim", "Regular"}}},
		VariationsSupplied: true,
	})
	require.NoError(t, err)

	detail, err := f.productSvc.Get(product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Variations, 1)
	assert.Equal(t, "Fit", detail.Variations[0].Name)
	assert.Len(t, detail.Variations[0].Options, 2)
}

func TestDeleteProduct_CascadesEverything(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")
	product, opts := f.seedProduct(t, "Tee", cat, colorSizeAxes())
	f.createSku(t, product.ID, "TEE-RED-S", opts["Color/Red"], opts["Size/S"])
	f.createSku(t, product.ID, "TEE-BLUE-M", opts["Color/Blue"], opts["Size/M"])

	_, err := f.productSvc.Delete(product.ID)
	require.NoError(t, err)

	counts := map[string]interface{}{
		"skus":       &model.ProductSku{},
		"variations": &model.ProductVariation{},
		"options":    &model.ProductVariationOption{},
		"configs":    &model.ProductVariationConfiguration{},
	}
	for name, m := range counts {
		var n int64
		f.db.Model(m).Where("product_id = ?", product.ID).Count(&n)
		assert.Zero(t, n, "leftover %s rows", name)
	}

	_, err = f.productSvc.Get(product.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// seedActiveWithSku creates an active product with one SKU so it qualifies
// for similar-product results.
func (f *serviceFixture) seedActiveWithSku(t *testing.T, name string, cat *model.Category, brand *model.Brand) *model.Product {
	t.Helper()
	input := CreateProductInput{ProductName: name, CategoryID: &cat.ID}
	if brand != nil {
		input.BrandID = &brand.ID
	}
	product, err := f.productSvc.Create(input)
	require.NoError(t, err)
	f.createSku(t, product.ID, name+"-SKU")
	return product
}

func TestListSimilar_StagesFromTightToLoose(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	catA := f.seedCategory(t, "Shirts")
	catB := f.seedCategory(t, "Shoes")
	brandX := f.seedBrand(t, "Acme")
	brandY := f.seedBrand(t, "Globex")

	source := f.seedActiveWithSku(t, "Source", catA, brandX)
	sameBoth := f.seedActiveWithSku(t, "SameBoth", catA, brandX)
	sameCat := f.seedActiveWithSku(t, "SameCat", catA, brandY)
	sameBrand := f.seedActiveWithSku(t, "SameBrand", catB, brandX)
	unrelated := f.seedActiveWithSku(t, "Unrelated", catB, brandY)

	results, err := f.productSvc.ListSimilar(source.ID, 10)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, sameBoth.ID, results[0].ID)
	assert.Equal(t, sameCat.ID, results[1].ID)
	assert.Equal(t, sameBrand.ID, results[2].ID)
	assert.Equal(t, unrelated.ID, results[3].ID)
	for _, r := range results {
		assert.NotEmpty(t, r.Skus)
	}
}

func TestListSimilar_SkipsProductsWithoutSkus(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")

	source := f.seedActiveWithSku(t, "Source", cat, nil)
	withSku := f.seedActiveWithSku(t, "WithSku", cat, nil)
	noSku, err := f.productSvc.Create(CreateProductInput{ProductName: "NoSku", CategoryID: &cat.ID})
	require.NoError(t, err)

	results, err := f.productSvc.ListSimilar(source.ID, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, withSku.ID, results[0].ID)
	assert.NotEqual(t, noSku.ID, results[0].ID)
}

func TestListSimilar_HonorsLimit(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)
	cat := f.seedCategory(t, "Shirts")

	source := f.seedActiveWithSku(t, "Source", cat, nil)
	for i := 0; i < 5; i++ {
		f.seedActiveWithSku(t, "Candidate-"+string(rune('A'+i)), cat, nil)
	}

	results, err := f.productSvc.ListSimilar(source.ID, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestListSimilar_UnknownProduct(t *testing.T) {
	f := newServiceFixture(t, model.CategorySingle)

	_, err := f.productSvc.ListSimilar(uuid.New(), 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMultiCategoryProduct(t *testing.T) {
	f := newServiceFixture(t, model.CategoryMulti)
	catA := f.seedCategory(t, "Shirts")
	catB := f.seedCategory(t, "Sale")

	product, err := f.productSvc.Create(CreateProductInput{
		ProductName: "Tee",
		CategoryIDs: []uuid.UUID{catA.ID, catB.ID},
	})
	require.NoError(t, err)

	stored, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Categories, 2)

	_, err = f.productSvc.Create(CreateProductInput{ProductName: "Orphan"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
