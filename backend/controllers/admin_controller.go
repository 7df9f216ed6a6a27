package controllers

import (
	"errors"
	"strconv"

	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

func (ac *AdminController) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ac.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, u := range users {
		result = append(result, fiber.Map{
			"id":             u.ID,
			"name":           u.Name,
			"email":          u.Email,
			"role":           u.Role,
			"status":         u.Status,
			"approvalStatus": u.ApprovalStatus,
			"isApproved":     u.IsApproved,
			"createdAt":      u.CreatedAt,
		})
	}
	return c.JSON(result)
}

func (ac *AdminController) UpdateUserStatus(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	type StatusInput struct {
		Status string `json:"status"`
	}

	var input StatusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	switch input.Status {
	case "active", "inactive", "pending", "rejected":
	default:
		return utils.BadRequest(c, "Invalid status")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	user.Status = input.Status
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"id":     user.ID,
		"status": user.Status,
	})
}

// ApproveTeacher flips a pending teacher account to approved or rejected.
func (ac *AdminController) ApproveTeacher(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	type ApprovalInput struct {
		Status string `json:"status"` // approved, rejected
	}

	var input ApprovalInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Status != "approved" && input.Status != "rejected" {
		return utils.BadRequest(c, "Status must be approved or rejected")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if user.Role != "teacher" {
		return utils.BadRequest(c, "User is not a teacher")
	}

	user.ApprovalStatus = input.Status
	if input.Status == "approved" {
		user.IsApproved = true
		user.Status = "active"
	} else {
		user.IsApproved = false
		user.Status = "rejected"
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"id":             user.ID,
		"role":           user.Role,
		"status":         user.Status,
		"approvalStatus": user.ApprovalStatus,
		"isApproved":     user.IsApproved,
	})
}

func (ac *AdminController) GetAnalytics(c *fiber.Ctx) error {
	var totalTeachers, totalStudents, activeCourses, pendingApprovals int64

	if err := ac.DB.Model(&models.User{}).Where("role = ?", "teacher").Count(&totalTeachers).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := ac.DB.Model(&models.User{}).Where("role = ?", "student").Count(&totalStudents).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := ac.DB.Model(&models.Course{}).Count(&activeCourses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := ac.DB.Model(&models.User{}).
		Where("role = ? AND approval_status = ?", "teacher", "pending").
		Count(&pendingApprovals).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"pendingApprovals": pendingApprovals,
		"totalTeachers":    totalTeachers,
		"totalStudents":    totalStudents,
		"activeCourses":    activeCourses,
	})
}
