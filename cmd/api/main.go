package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/handler"
	"github.com/sahlct/E-Portal-server/internal/middleware"
	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/internal/service"
	"github.com/sahlct/E-Portal-server/internal/ws"
	"github.com/sahlct/E-Portal-server/pkg/database"
	"github.com/sahlct/E-Portal-server/pkg/mailer"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to init logger:", err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
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
		&model.Banner{},
		&model.Blog{},
		&model.CarouselItem{},
	)

	// 3. Seed default admin user
	seedAdmin(db, zlog)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Shared infrastructure
	files := storage.NewDiskStore(os.Getenv("UPLOAD_DIR"))
	mail := mailer.NewSMTPMailer(mailer.ConfigFromEnv())
	categoryMode := model.ParseCategoryMode(os.Getenv("PRODUCT_CATEGORY_MODE"))

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	otpRepo := repository.NewOTPRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	subCategoryRepo := repository.NewSubCategoryRepo(db)
	innerCategoryRepo := repository.NewInnerCategoryRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	productRepo := repository.NewProductRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	bannerRepo := repository.NewBannerRepo(db)
	blogRepo := repository.NewBlogRepo(db)
	carouselRepo := repository.NewCarouselRepo(db)

	authService := service.NewAuthService(userRepo, otpRepo, mail, zlog)
	categoryService := service.NewCategoryService(categoryRepo, files, wsHub, zlog)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, files, zlog)
	innerCategoryService := service.NewInnerCategoryService(innerCategoryRepo, subCategoryRepo, categoryRepo)
	productService := service.NewProductService(
		db, categoryMode,
		productRepo, variationRepo, skuRepo,
		categoryRepo, subCategoryRepo, innerCategoryRepo, brandRepo,
		files, wsHub, zlog,
	)
	skuService := service.NewSkuService(db, productRepo, variationRepo, skuRepo, files, wsHub, zlog)

	authHandler := handler.NewAuthHandler(authService, zlog)
	categoryHandler := handler.NewCategoryHandler(categoryService, files, zlog)
	subCategoryHandler := handler.NewSubCategoryHandler(subCategoryService, files, zlog)
	innerCategoryHandler := handler.NewInnerCategoryHandler(innerCategoryService, zlog)
	brandHandler := handler.NewBrandHandler(brandRepo, files, wsHub, zlog)
	productHandler := handler.NewProductHandler(productService, files, zlog)
	skuHandler := handler.NewSkuHandler(skuService, files, zlog)
	contentHandler := handler.NewContentHandler(bannerRepo, blogRepo, carouselRepo, files, zlog)
	dashboardHandler := handler.NewDashboardHandler(productRepo, zlog)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "E-Portal Admin API v1.0",
		BodyLimit: 32 * 1024 * 1024,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// uploaded files are served straight from disk
	app.Static("/uploads", files.Root)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/dashboard/stats", dashboardHandler.Stats)

	protected.Post("/categories", categoryHandler.Create)
	protected.Get("/categories", categoryHandler.List)
	protected.Get("/categories/:id", categoryHandler.Get)
	protected.Put("/categories/:id", categoryHandler.Update)
	protected.Delete("/categories/:id", categoryHandler.Delete)

	protected.Post("/sub-categories", subCategoryHandler.Create)
	protected.Get("/sub-categories", subCategoryHandler.List)
	protected.Get("/sub-categories/:id", subCategoryHandler.Get)
	protected.Put("/sub-categories/:id", subCategoryHandler.Update)
	protected.Delete("/sub-categories/:id", subCategoryHandler.Delete)

	protected.Post("/inner-categories", innerCategoryHandler.Create)
	protected.Get("/inner-categories", innerCategoryHandler.List)
	protected.Get("/inner-categories/:id", innerCategoryHandler.Get)
	protected.Put("/inner-categories/:id", innerCategoryHandler.Update)
	protected.Delete("/inner-categories/:id", innerCategoryHandler.Delete)

	protected.Post("/brands", brandHandler.Create)
	protected.Get("/brands", brandHandler.List)
	protected.Get("/brands/:id", brandHandler.Get)
	protected.Put("/brands/:id", brandHandler.Update)
	protected.Delete("/brands/:id", brandHandler.Delete)

	protected.Post("/products", productHandler.Create)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.Get)
	protected.Get("/products/:id/similar", productHandler.ListSimilar)
	protected.Put("/products/:id", productHandler.Update)
	protected.Delete("/products/:id", productHandler.Delete)

	protected.Post("/product-skus", skuHandler.Create)
	protected.Get("/product-skus", skuHandler.List)
	protected.Get("/product-skus/:id", skuHandler.Get)
	protected.Put("/product-skus/:id", skuHandler.Update)
	protected.Delete("/product-skus/:id", skuHandler.Delete)

	protected.Post("/banners", contentHandler.CreateBanner)
	protected.Get("/banners", contentHandler.ListBanners)
	protected.Get("/banners/:id", contentHandler.GetBanner)
	protected.Put("/banners/:id", contentHandler.UpdateBanner)
	protected.Delete("/banners/:id", contentHandler.DeleteBanner)

	protected.Post("/blogs", contentHandler.CreateBlog)
	protected.Get("/blogs", contentHandler.ListBlogs)
	protected.Get("/blogs/:id", contentHandler.GetBlog)
	protected.Put("/blogs/:id", contentHandler.UpdateBlog)
	protected.Delete("/blogs/:id", contentHandler.DeleteBlog)

	protected.Post("/carousel", contentHandler.CreateCarouselItem)
	protected.Get("/carousel", contentHandler.ListCarouselItems)
	protected.Get("/carousel/:id", contentHandler.GetCarouselItem)
	protected.Put("/carousel/:id", contentHandler.UpdateCarouselItem)
	protected.Delete("/carousel/:id", contentHandler.DeleteCarouselItem)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if no account exists yet.
func seedAdmin(db *gorm.DB, zlog *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{Name: "Administrator", Email: email}
	if err := admin.SetPassword(password); err != nil {
		zlog.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		zlog.Warn("failed to create admin user", zap.Error(err))
		return
	}
	zlog.Info("admin user created", zap.String("email", email))
}
