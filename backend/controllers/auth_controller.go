package controllers

import (
	"errors"
	"time"

	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// [+] Register godoc
// @Summary Register a new user
// @Description Creates a new account. Teacher accounts start in the pending
// @Description approval state and cannot log in until an admin approves them.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Bio      string `json:"bio"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Name, email and password are required")
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "User already exists")
	}

	role := input.Role
	if role != "teacher" && role != "admin" {
		role = "student"
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   string(hashedPassword),
		Role:           role,
		Bio:            input.Bio,
		Status:         "active",
		IsApproved:     true,
		ApprovalStatus: "approved",
	}

	// Teachers wait for admin approval
	if role == "teacher" {
		user.Status = "pending"
		user.IsApproved = false
		user.ApprovalStatus = "pending"
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

// [+] Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token. A student login is a
// @Description qualifying visit for the daily streak.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	// Unapproved teachers are refused before any state changes
	if user.Role == "teacher" && !user.IsApproved {
		if user.ApprovalStatus == "rejected" {
			return utils.Forbidden(c, "Your account has been rejected by the admin.")
		}
		return utils.Forbidden(c, "Your account is pending approval. Please wait for Admin.")
	}

	// A student login counts once per calendar day towards the streak
	if user.Role == "student" {
		now := time.Now()
		user.CurrentStreak, user.LongestStreak = utils.AdvanceStreak(
			user.CurrentStreak, user.LongestStreak, user.LastLoginDate, now)
		user.LastLoginDate = &now
		if err := ac.DB.Save(&user).Error; err != nil {
			return utils.InternalServerError(c, "Could not update streak")
		}
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}
