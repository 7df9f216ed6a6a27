package main

import (
	"log"

	"gurukul/backend/config"
	"gurukul/backend/middleware"
	"gurukul/backend/models"
	"gurukul/backend/routes"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	if err := seedAdmin(db, cfg); err != nil {
		logger.Printf("Admin seeding failed: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

// seedAdmin creates the configured admin account on first start.
func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:           "Admin",
		Email:          cfg.AdminEmail,
		PasswordHash:   string(hashed),
		Role:           "admin",
		Status:         "active",
		IsApproved:     true,
		ApprovalStatus: "approved",
	}
	return db.Create(&admin).Error
}
