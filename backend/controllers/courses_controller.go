package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type CourseInput struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Thumbnail   string  `json:"thumbnail"`
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Thumbnail:   input.Thumbnail,
		TeacherID:   userID,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  cc.courseSummary(&course),
	})
}

func (cc *CoursesController) GetAllCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Preload("Lessons").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for i := range courses {
		result = append(result, cc.courseSummary(&courses[i]))
	}
	return c.JSON(result)
}

func (cc *CoursesController) GetCourseByID(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Lessons.Checkpoints").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	lessons := []fiber.Map{}
	for _, lesson := range course.Lessons {
		lessons = append(lessons, lessonDetails(&lesson))
	}

	summary := cc.courseSummary(&course)
	summary["description"] = course.Description
	summary["lessons"] = lessons
	summary["enrolledStudents"] = cc.enrolledStudentIDs(course.ID)

	return c.JSON(fiber.Map{"course": summary})
}

// Enroll godoc
// @Summary Enroll the caller in a course
// @Description Creates the progress entry that is the source of truth for
// @Description enrollment. A second attempt for the same course conflicts.
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/enroll/{id} [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var existing models.ProgressEntry
	err = cc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "Already enrolled in this course")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	entry := models.ProgressEntry{UserID: userID, CourseID: course.ID}
	if err := cc.DB.Create(&entry).Error; err != nil {
		// The unique (user, course) index also catches a concurrent enroll
		return utils.BadRequest(c, "Already enrolled in this course")
	}

	return c.JSON(fiber.Map{
		"message": "Enrolled",
		"course":  cc.courseSummary(&course),
	})
}

func (cc *CoursesController) GetMyCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	if user.Role == "teacher" {
		err = cc.DB.Preload("Lessons").Where("teacher_id = ?", userID).Find(&courses).Error
	} else {
		err = cc.DB.Preload("Lessons").
			Joins("JOIN progress_entries ON progress_entries.course_id = courses.id").
			Where("progress_entries.user_id = ? AND progress_entries.deleted_at IS NULL", userID).
			Find(&courses).Error
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for i := range courses {
		result = append(result, cc.courseSummary(&courses[i]))
	}
	return c.JSON(result)
}

func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	type CheckpointInput struct {
		Timestamp     int      `json:"timestamp"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectOption int      `json:"correctOptionIndex"`
		Explanation   string   `json:"explanation"`
	}
	type LessonInput struct {
		Title       string            `json:"title"`
		URL         string            `json:"url"`
		Type        string            `json:"type"`
		Checkpoints []CheckpointInput `json:"interactiveQuizzes"`
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Type != "video" && input.Type != "document" {
		return utils.BadRequest(c, "Lesson type must be video or document")
	}

	var course models.Course
	if err := cc.DB.Preload("Lessons").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Make sure the caller owns the course
	if course.TeacherID != userID {
		return utils.Unauthorized(c, "User not authorized")
	}

	lesson := models.Lesson{
		CourseID:      course.ID,
		Title:         input.Title,
		URL:           input.URL,
		Type:          input.Type,
		SequenceOrder: len(course.Lessons) + 1,
	}
	for _, cp := range input.Checkpoints {
		options, _ := json.Marshal(cp.Options)
		lesson.Checkpoints = append(lesson.Checkpoints, models.VideoCheckpoint{
			Timestamp:     cp.Timestamp,
			Question:      cp.Question,
			Options:       string(options),
			CorrectOption: cp.CorrectOption,
			Explanation:   cp.Explanation,
		})
	}

	if err := cc.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not add lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lessonDetails(&lesson),
	})
}

// GetTeacherAnalytics aggregates progress across the caller's courses:
// totals, unique enrolled students, average completion percentage and a
// per-student per-course breakdown.
func (cc *CoursesController) GetTeacherAnalytics(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if user.Role != "teacher" {
		return utils.Forbidden(c, "Access denied. Teachers only.")
	}

	var courses []models.Course
	if err := cc.DB.Preload("Lessons").Where("teacher_id = ?", userID).Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	courseByID := make(map[uint]*models.Course, len(courses))
	courseIDs := make([]uint, 0, len(courses))
	for i := range courses {
		courseByID[courses[i].ID] = &courses[i]
		courseIDs = append(courseIDs, courses[i].ID)
	}

	var entries []models.ProgressEntry
	if len(courseIDs) > 0 {
		if err := cc.DB.Preload("CompletedLessons").
			Where("course_id IN ?", courseIDs).Find(&entries).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	studentIDs := make(map[uint]bool)
	for _, entry := range entries {
		studentIDs[entry.UserID] = true
	}

	names := make(map[uint]string)
	if len(studentIDs) > 0 {
		ids := make([]uint, 0, len(studentIDs))
		for id := range studentIDs {
			ids = append(ids, id)
		}
		var students []models.User
		if err := cc.DB.Where("id IN ?", ids).Find(&students).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		for _, s := range students {
			names[s.ID] = s.Name
		}
	}

	totalPercentage := 0
	performance := []fiber.Map{}
	for _, entry := range entries {
		course := courseByID[entry.CourseID]
		percentage := utils.Percentage(len(entry.CompletedLessons), len(course.Lessons))
		totalPercentage += percentage

		performance = append(performance, fiber.Map{
			"studentId":   entry.UserID,
			"studentName": names[entry.UserID],
			"courseTitle": course.Title,
			"progress":    percentage,
		})
	}

	avgProgress := 0
	if len(entries) > 0 {
		avgProgress = totalPercentage / len(entries)
	}

	return c.JSON(fiber.Map{
		"totalCourses":       len(courses),
		"totalStudents":      len(studentIDs),
		"avgProgress":        avgProgress,
		"studentPerformance": performance,
	})
}

func (cc *CoursesController) courseSummary(course *models.Course) fiber.Map {
	var teacher models.User
	teacherName := ""
	if err := cc.DB.First(&teacher, course.TeacherID).Error; err == nil {
		teacherName = teacher.Name
	}

	return fiber.Map{
		"id":          course.ID,
		"title":       course.Title,
		"category":    course.Category,
		"price":       course.Price,
		"thumbnail":   course.Thumbnail,
		"teacherId":   course.TeacherID,
		"teacherName": teacherName,
		"lessonCount": len(course.Lessons),
		"createdAt":   course.CreatedAt,
	}
}

func (cc *CoursesController) enrolledStudentIDs(courseID uint) []uint {
	ids := []uint{}
	cc.DB.Model(&models.ProgressEntry{}).
		Where("course_id = ?", courseID).
		Order("user_id").
		Pluck("user_id", &ids)
	return ids
}

func lessonDetails(lesson *models.Lesson) fiber.Map {
	checkpoints := []fiber.Map{}
	for _, cp := range lesson.Checkpoints {
		var options []string
		_ = json.Unmarshal([]byte(cp.Options), &options)
		checkpoints = append(checkpoints, fiber.Map{
			"id":                 cp.ID,
			"timestamp":          cp.Timestamp,
			"question":           cp.Question,
			"options":            options,
			"correctOptionIndex": cp.CorrectOption,
			"explanation":        cp.Explanation,
		})
	}

	return fiber.Map{
		"id":                 lesson.ID,
		"title":              lesson.Title,
		"url":                lesson.URL,
		"type":               lesson.Type,
		"sequenceOrder":      lesson.SequenceOrder,
		"interactiveQuizzes": checkpoints,
	}
}
