package controllers

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizController(db *gorm.DB, cfg *config.Config) *QuizController {
	return &QuizController{DB: db, Cfg: cfg}
}

type questionInput struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOptionIndex"`
}

func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type QuizInput struct {
		Title     string          `json:"title"`
		CourseID  uint            `json:"courseId"`
		Questions []questionInput `json:"questions"`
	}

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := qc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.TeacherID != userID {
		return utils.Unauthorized(c, "Not authorized")
	}

	questions, err := buildQuestions(input.Questions)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	quiz := models.Quiz{
		Title:     input.Title,
		CourseID:  course.ID,
		Questions: questions,
	}
	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quizDetails(&quiz),
	})
}

func (qc *QuizController) UpdateQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	type QuizInput struct {
		Title     string          `json:"title"`
		Questions []questionInput `json:"questions"`
	}

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := qc.DB.First(&course, quiz.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Associated course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.TeacherID != userID {
		return utils.Unauthorized(c, "Not authorized")
	}

	questions, err := buildQuestions(input.Questions)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	// Replace the question list wholesale
	if err := qc.DB.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
		return utils.InternalServerError(c, "Could not update quiz")
	}
	quiz.Title = input.Title
	quiz.Questions = questions
	if err := qc.DB.Save(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not update quiz")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz updated",
		"quiz":    quizDetails(&quiz),
	})
}

func (qc *QuizController) GetQuizzesByCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var quizzes []models.Quiz
	if err := qc.DB.Preload("Questions").Where("course_id = ?", courseID).Find(&quizzes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for i := range quizzes {
		result = append(result, quizDetails(&quizzes[i]))
	}
	return c.JSON(result)
}

func (qc *QuizController) GetQuizByID(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"quiz": quizDetails(&quiz)})
}

// SubmitQuiz godoc
// @Summary Grade a quiz submission and record the result
// @Description Answers are selected option indices, one per question; -1 or
// @Description any non-matching index counts as wrong. The percentage is
// @Description appended to the caller's progress entry for the quiz's
// @Description course, creating the entry if it is missing.
// @Tags quizzes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /quizzes/{id}/submit [post]
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	type SubmitInput struct {
		Answers []int `json:"answers"`
	}

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order, id")
	}).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	correct := make([]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		correct[i] = q.CorrectOption
	}

	score := utils.GradeQuiz(correct, input.Answers)
	percentage := utils.Percentage(score, len(quiz.Questions))

	// Record the result on the matching progress entry, creating it on the
	// fly when the caller has no enrollment record for the quiz's course.
	var entry models.ProgressEntry
	err = qc.DB.Where("user_id = ? AND course_id = ?", userID, quiz.CourseID).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		entry = models.ProgressEntry{UserID: userID, CourseID: quiz.CourseID}
		if err := qc.DB.Create(&entry).Error; err != nil {
			return utils.InternalServerError(c, "Could not record score")
		}
	}

	record := models.QuizScore{
		ProgressEntryID: entry.ID,
		QuizID:          quiz.ID,
		Score:           float64(percentage),
	}
	if err := qc.DB.Create(&record).Error; err != nil {
		return utils.InternalServerError(c, "Could not record score")
	}

	return c.JSON(fiber.Map{
		"score":      score,
		"total":      len(quiz.Questions),
		"percentage": percentage,
	})
}

func buildQuestions(inputs []questionInput) ([]models.QuizQuestion, error) {
	questions := make([]models.QuizQuestion, 0, len(inputs))
	for i, q := range inputs {
		if len(q.Options) < 2 || len(q.Options) > 4 {
			return nil, errors.New("Each question needs 2 to 4 options")
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return nil, errors.New("Correct option index out of range")
		}
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		questions = append(questions, models.QuizQuestion{
			Text:          q.Text,
			Options:       string(options),
			CorrectOption: q.CorrectOption,
			SequenceOrder: i + 1,
		})
	}
	return questions, nil
}

func quizDetails(quiz *models.Quiz) fiber.Map {
	sort.Slice(quiz.Questions, func(i, j int) bool {
		if quiz.Questions[i].SequenceOrder != quiz.Questions[j].SequenceOrder {
			return quiz.Questions[i].SequenceOrder < quiz.Questions[j].SequenceOrder
		}
		return quiz.Questions[i].ID < quiz.Questions[j].ID
	})

	questions := []fiber.Map{}
	for _, q := range quiz.Questions {
		var options []string
		_ = json.Unmarshal([]byte(q.Options), &options)
		questions = append(questions, fiber.Map{
			"id":                 q.ID,
			"text":               q.Text,
			"options":            options,
			"correctOptionIndex": q.CorrectOption,
		})
	}

	return fiber.Map{
		"id":        quiz.ID,
		"title":     quiz.Title,
		"courseId":  quiz.CourseID,
		"questions": questions,
	}
}
