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

type DiscussionController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDiscussionController(db *gorm.DB, cfg *config.Config) *DiscussionController {
	return &DiscussionController{DB: db, Cfg: cfg}
}

func (dc *DiscussionController) GetDiscussionsByCourse(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, dc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var discussions []models.Discussion
	if err := dc.DB.Preload("Replies").
		Where("course_id = ?", courseID).
		Order("updated_at DESC").
		Find(&discussions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	users := dc.userNames(discussions)

	result := []fiber.Map{}
	for i := range discussions {
		result = append(result, discussionDetails(&discussions[i], users))
	}
	return c.JSON(result)
}

func (dc *DiscussionController) CreateDiscussion(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	type DiscussionInput struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		LessonID *uint  `json:"lessonId"`
	}

	var input DiscussionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" || input.Content == "" {
		return utils.BadRequest(c, "Please provide title and content")
	}

	var course models.Course
	if err := dc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	discussion := models.Discussion{
		CourseID: course.ID,
		LessonID: input.LessonID,
		UserID:   userID,
		Title:    input.Title,
		Content:  input.Content,
	}
	if err := dc.DB.Create(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not create discussion")
	}

	users := dc.userNames([]models.Discussion{discussion})
	return c.JSON(discussionDetails(&discussion, users))
}

func (dc *DiscussionController) AddReply(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	discussionID, err := strconv.Atoi(c.Params("discussionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid discussion ID")
	}

	type ReplyInput struct {
		Content string `json:"content"`
	}

	var input ReplyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Content == "" {
		return utils.BadRequest(c, "Reply content is required")
	}

	var discussion models.Discussion
	if err := dc.DB.Preload("Replies").First(&discussion, discussionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Discussion not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	reply := models.DiscussionReply{
		DiscussionID: discussion.ID,
		UserID:       userID,
		Content:      input.Content,
	}
	if err := dc.DB.Create(&reply).Error; err != nil {
		return utils.InternalServerError(c, "Could not add reply")
	}
	discussion.Replies = append(discussion.Replies, reply)

	// Bump the thread so it sorts to the top of the course's list
	dc.DB.Model(&discussion).Update("updated_at", reply.CreatedAt)

	users := dc.userNames([]models.Discussion{discussion})
	return c.JSON(discussionDetails(&discussion, users))
}

// userNames resolves every author appearing in the threads with one query.
func (dc *DiscussionController) userNames(discussions []models.Discussion) map[uint]fiber.Map {
	idSet := make(map[uint]bool)
	for _, d := range discussions {
		idSet[d.UserID] = true
		for _, r := range d.Replies {
			idSet[r.UserID] = true
		}
	}

	users := make(map[uint]fiber.Map, len(idSet))
	if len(idSet) == 0 {
		return users
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var records []models.User
	dc.DB.Where("id IN ?", ids).Find(&records)
	for _, u := range records {
		users[u.ID] = fiber.Map{"id": u.ID, "name": u.Name, "role": u.Role}
	}
	return users
}

func discussionDetails(d *models.Discussion, users map[uint]fiber.Map) fiber.Map {
	replies := []fiber.Map{}
	for _, r := range d.Replies {
		replies = append(replies, fiber.Map{
			"id":        r.ID,
			"user":      users[r.UserID],
			"content":   r.Content,
			"createdAt": r.CreatedAt,
		})
	}

	return fiber.Map{
		"id":        d.ID,
		"courseId":  d.CourseID,
		"lessonId":  d.LessonID,
		"user":      users[d.UserID],
		"title":     d.Title,
		"content":   d.Content,
		"replies":   replies,
		"createdAt": d.CreatedAt,
		"updatedAt": d.UpdatedAt,
	}
}
