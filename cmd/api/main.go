package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-jalin-ops/internal/handler"
	"go-jalin-ops/internal/middleware"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"
	"go-jalin-ops/internal/service"
	"go-jalin-ops/internal/ws"
	"go-jalin-ops/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.ProductImage{},
		&model.ChecklistItem{},
		&model.RawMaterial{},
		&model.ProductMaterial{},
		&model.Supplier{},
		&model.User{},
	)

	// Material and supplier names are unique case-insensitively, same
	// policy the lookup queries use. AutoMigrate tags cannot express a
	// functional index, so create them directly.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_raw_materials_name_lower ON raw_materials (LOWER(name))")
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_suppliers_name_lower ON suppliers (LOWER(name))")

	// 3. Seed fallback direktur account
	seedDirektur(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	userRepo := repository.NewUserRepo(db)

	productService := service.NewProductService(productRepo, materialRepo, db, wsHub)
	materialService := service.NewMaterialService(materialRepo, db, wsHub)
	supplierService := service.NewSupplierService(supplierRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	productHandler := handler.NewProductHandler(productService)
	materialHandler := handler.NewMaterialHandler(materialService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./public/uploads"
	}
	uploadHandler := handler.NewUploadHandler(uploadDir)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Jalin Ops API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	app.Static("/uploads", uploadDir)

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/callback", authHandler.Callback)
	auth.Post("/login", authHandler.Login)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/raw-materials", materialHandler.GetMaterials)
	api.Get("/suppliers", supplierHandler.GetSuppliers)
	api.Get("/supplier", supplierHandler.GetSuppliers) // legacy path

	// ============ PROTECTED ROUTES ============
	// Mutations require admin or direktur
	manage := middleware.RequireRole(model.RoleAdmin, model.RoleDirektur)
	protected := api.Group("", middleware.RequireAuth())

	protected.Post("/products", manage, productHandler.CreateProduct)
	protected.Put("/products/:id", manage, productHandler.UpdateProduct)
	protected.Delete("/products/:id", manage, productHandler.DeleteProduct)

	protected.Post("/raw-materials", manage, materialHandler.CreateMaterial)
	protected.Put("/raw-materials/:id", manage, materialHandler.UpdateMaterial)
	protected.Delete("/raw-materials/:id", manage, materialHandler.DeleteMaterial)

	protected.Post("/suppliers", manage, supplierHandler.CreateSupplier)
	protected.Post("/supplier", manage, supplierHandler.CreateSupplier) // legacy path

	protected.Post("/upload", manage, uploadHandler.Upload)

	// User management: listing needs auth, role changes need direktur
	protected.Get("/users", userHandler.GetUsers)
	protected.Put("/users/:id", middleware.RequireRole(model.RoleDirektur), userHandler.UpdateUserRole)

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

// seedDirektur creates the fallback direktur account so role changes
// are possible before any OAuth sign-in has happened
func seedDirektur(db *gorm.DB) {
	email := os.Getenv("SEED_DIREKTUR_EMAIL")
	if email == "" {
		email = "direktur@example.com"
	}

	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("SEED_DIREKTUR_PASSWORD")
	if password == "" {
		password = "direktur123"
	}

	direktur := &model.User{
		Email:    email,
		FullName: "Direktur",
		Role:     model.RoleDirektur,
	}
	if err := direktur.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash direktur password: %v", err)
		return
	}

	if err := userRepo.Create(direktur); err != nil {
		log.Printf("Warning: Failed to create direktur user: %v", err)
	} else {
		log.Printf("Direktur user created: %s", email)
	}
}
