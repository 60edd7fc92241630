package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

func newCategoryServices(t *testing.T) (*serviceFixture, CategoryService, SubCategoryService, InnerCategoryService) {
	t.Helper()
	f := newServiceFixture(t, model.CategorySingle)
	hub := newTestHub()
	log := zap.NewNop()
	catSvc := NewCategoryService(f.categories, f.files, hub, log)
	subSvc := NewSubCategoryService(f.subs, f.categories, f.files, log)
	innerSvc := NewInnerCategoryService(f.inners, f.subs, f.categories)
	return f, catSvc, subSvc, innerSvc
}

func boolPtr(b bool) *bool { return &b }

func TestCategory_DuplicateNameCaseInsensitive(t *testing.T) {
	_, catSvc, _, _ := newCategoryServices(t)

	_, err := catSvc.Create(CreateCategoryInput{CategoryName: "Electronics"})
	require.NoError(t, err)

	_, err = catSvc.Create(CreateCategoryInput{CategoryName: "ELECTRONICS"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCategory_ListingCap(t *testing.T) {
	_, catSvc, _, _ := newCategoryServices(t)

	_, err := catSvc.Create(CreateCategoryInput{CategoryName: "One", IsListing: boolPtr(true)})
	require.NoError(t, err)
	_, err = catSvc.Create(CreateCategoryInput{CategoryName: "Two", IsListing: boolPtr(true)})
	require.NoError(t, err)

	_, err = catSvc.Create(CreateCategoryInput{CategoryName: "Three", IsListing: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCategory_ListingCapExcludesSelfOnUpdate(t *testing.T) {
	_, catSvc, _, _ := newCategoryServices(t)

	one, err := catSvc.Create(CreateCategoryInput{CategoryName: "One", IsListing: boolPtr(true)})
	require.NoError(t, err)
	_, err = catSvc.Create(CreateCategoryInput{CategoryName: "Two", IsListing: boolPtr(true)})
	require.NoError(t, err)

	// re-asserting is_listing on an already-listed category must not trip the cap
	updated, err := catSvc.Update(one.ID, UpdateCategoryInput{IsListing: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsListing)
}

func TestSubCategory_DuplicateScopedToParent(t *testing.T) {
	_, catSvc, subSvc, _ := newCategoryServices(t)

	catA, err := catSvc.Create(CreateCategoryInput{CategoryName: "Electronics"})
	require.NoError(t, err)
	catB, err := catSvc.Create(CreateCategoryInput{CategoryName: "Furniture"})
	require.NoError(t, err)

	_, err = subSvc.Create(CreateSubCategoryInput{SubCategoryName: "Phones", CategoryID: catA.ID})
	require.NoError(t, err)

	// duplicate within the same parent
	_, err = subSvc.Create(CreateSubCategoryInput{SubCategoryName: "phones", CategoryID: catA.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// same name under a different parent is fine
	_, err = subSvc.Create(CreateSubCategoryInput{SubCategoryName: "Phones", CategoryID: catB.ID})
	require.NoError(t, err)
}

func TestInnerCategory_RequiresConsistentChain(t *testing.T) {
	_, catSvc, subSvc, innerSvc := newCategoryServices(t)

	catA, err := catSvc.Create(CreateCategoryInput{CategoryName: "Electronics"})
	require.NoError(t, err)
	catB, err := catSvc.Create(CreateCategoryInput{CategoryName: "Furniture"})
	require.NoError(t, err)
	sub, err := subSvc.Create(CreateSubCategoryInput{SubCategoryName: "Phones", CategoryID: catA.ID})
	require.NoError(t, err)

	_, err = innerSvc.Create(CreateInnerCategoryInput{
		InnerCategoryName: "Smartphones",
		CategoryID:        catB.ID,
		SubCategoryID:     sub.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	inner, err := innerSvc.Create(CreateInnerCategoryInput{
		InnerCategoryName: "Smartphones",
		CategoryID:        catA.ID,
		SubCategoryID:     sub.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, inner.SubCategoryID)
}

func TestCategory_DeleteRemovesImage(t *testing.T) {
	f, catSvc, _, _ := newCategoryServices(t)

	cat, err := catSvc.Create(CreateCategoryInput{
		CategoryName:  "Electronics",
		CategoryImage: "/uploads/category/x.png",
	})
	require.NoError(t, err)

	require.NoError(t, catSvc.Delete(cat.ID))
	assert.Contains(t, f.files.Deleted, "/uploads/category/x.png")

	_, err = catSvc.Get(cat.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
