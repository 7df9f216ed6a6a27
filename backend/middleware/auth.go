package middleware

import (
	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if user.Role != "admin" {
			return utils.Forbidden(c, "Access denied. Admin only.")
		}

		return c.Next()
	}
}

// ApprovedTeacherMiddleware admits teachers whose account an admin has
// approved. Pending and rejected teachers can log in to nothing that
// authors content.
func ApprovedTeacherMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if user.Role == "teacher" && !user.IsApproved {
			return utils.Forbidden(c, "Access denied. Your account is pending approval.")
		}
		if user.Role != "teacher" && user.Role != "admin" {
			return utils.Forbidden(c, "Access denied. Teachers only.")
		}

		return c.Next()
	}
}
