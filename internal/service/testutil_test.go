package service

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/ws"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// one connection so every session sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.PasswordOTP{},
		&model.Category{},
		&model.SubCategory{},
		&model.InnerCategory{},
		&model.Brand{},
		&model.Product{},
		&model.ProductVariation{},
		&model.ProductVariationOption{},
		&model.ProductSku{},
		&model.ProductVariationConfiguration{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fakeStore records stored and deleted refs without touching the disk.
type fakeStore struct {
	mu      sync.Mutex
	n       int
	Deleted []string
}

func (f *fakeStore) Store(src io.Reader, originalName, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("/uploads/%s/%d-%s", folder, f.n, originalName), nil
}

func (f *fakeStore) Delete(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, ref)
	return nil
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

type serviceFixture struct {
	db         *gorm.DB
	products   repository.ProductRepository
	variations repository.VariationRepository
	skus       repository.SkuRepository
	categories repository.CategoryRepository
	subs       repository.SubCategoryRepository
	inners     repository.InnerCategoryRepository
	brands     repository.BrandRepository
	files      *fakeStore

	productSvc ProductService
	skuSvc     SkuService
}

func newServiceFixture(t *testing.T, mode model.CategoryMode) *serviceFixture {
	t.Helper()
	db := newTestDB(t)
	f := &serviceFixture{
		db:         db,
		products:   repository.NewProductRepo(db),
		variations: repository.NewVariationRepo(db),
		skus:       repository.NewSkuRepo(db),
		categories: repository.NewCategoryRepo(db),
		subs:       repository.NewSubCategoryRepo(db),
		inners:     repository.NewInnerCategoryRepo(db),
		brands:     repository.NewBrandRepo(db),
		files:      &fakeStore{},
	}
	hub := newTestHub()
	log := zap.NewNop()
	f.productSvc = NewProductService(
		db, mode,
		f.products, f.variations, f.skus,
		f.categories, f.subs, f.inners, f.brands,
		f.files, hub, log,
	)
	f.skuSvc = NewSkuService(db, f.products, f.variations, f.skus, f.files, hub, log)
	return f
}

func (f *serviceFixture) seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	cat := &model.Category{CategoryName: name, Status: model.StatusActive}
	require.NoError(t, f.categories.Create(cat))
	return cat
}

func (f *serviceFixture) seedBrand(t *testing.T, name string) *model.Brand {
	t.Helper()
	brand := &model.Brand{BrandName: name, Status: model.StatusActive}
	require.NoError(t, f.brands.Create(brand))
	return brand
}

// seedProduct creates an active product with the given variation axes, each
// axis mapping to its option names. Returns the product and option ids keyed
// "axis/option".
func (f *serviceFixture) seedProduct(t *testing.T, name string, cat *model.Category, axes []model.VariationInput) (*model.Product, map[string]uuid.UUID) {
	t.Helper()
	input := CreateProductInput{
		ProductName: name,
		CategoryID:  &cat.ID,
		Variations:  axes,
	}
	product, err := f.productSvc.Create(input)
	require.NoError(t, err)

	options := make(map[string]uuid.UUID)
	withOptions, err := f.variations.FindByProduct(product.ID)
	require.NoError(t, err)
	for _, v := range withOptions {
		for _, opt := range v.Options {
			options[v.Name+"/"+opt.Name] = opt.ID
		}
	}
	return product, options
}

func (f *serviceFixture) createSku(t *testing.T, productID uuid.UUID, code string, optionIDs ...uuid.UUID) *model.ProductSku {
	t.Helper()
	sku, err := f.skuSvc.CreateWithVariation(CreateSkuInput{
		ProductID:      productID,
		Sku:            code,
		ProductSkuName: code,
		Mrp:            100,
		Price:          90,
		Quantity:       5,
		OptionIDs:      optionIDs,
	})
	require.NoError(t, err)
	return sku
}
