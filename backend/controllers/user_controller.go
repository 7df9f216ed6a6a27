package controllers

import (
	"errors"
	"sort"
	"time"

	"gurukul/backend/config"
	"gurukul/backend/models"
	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetDashboard godoc
// @Summary Get student dashboard
// @Description Per-course completion percentages, streaks and the five most
// @Description recent quiz scores. Progress entries whose course has been
// @Description deleted are skipped, not errored on.
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/dashboard [get]
func (uc *UserController) GetDashboard(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.Preload("Progress.CompletedLessons").Preload("Progress.QuizScores").
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	type recentQuiz struct {
		courseTitle string
		score       float64
		date        time.Time
	}

	courseProgress := []fiber.Map{}
	var quizzes []recentQuiz

	for _, entry := range user.Progress {
		var course models.Course
		if err := uc.DB.Preload("Lessons").First(&course, entry.CourseID).Error; err != nil {
			// Course deleted after enrollment, tolerate the dangling entry
			continue
		}

		completed := len(entry.CompletedLessons)
		total := len(course.Lessons)
		percentage := utils.Percentage(completed, total)

		lessonIDs := make([]uint, 0, completed)
		for _, cl := range entry.CompletedLessons {
			lessonIDs = append(lessonIDs, cl.LessonID)
		}

		courseProgress = append(courseProgress, fiber.Map{
			"id":                 course.ID,
			"title":              course.Title,
			"completed":          completed,
			"total":              total,
			"percentage":         percentage,
			"completedLessonIds": lessonIDs,
			"completedAt":        entry.CompletedAt,
		})

		for _, qs := range entry.QuizScores {
			quizzes = append(quizzes, recentQuiz{
				courseTitle: course.Title,
				score:       qs.Score,
				date:        qs.CreatedAt,
			})
		}
	}

	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].date.After(quizzes[j].date)
	})
	if len(quizzes) > 5 {
		quizzes = quizzes[:5]
	}

	recentQuizzes := []fiber.Map{}
	for _, q := range quizzes {
		recentQuizzes = append(recentQuizzes, fiber.Map{
			"courseTitle": q.courseTitle,
			"score":       q.score,
			"date":        q.date,
		})
	}

	return c.JSON(fiber.Map{
		"userName": user.Name,
		"streaks": fiber.Map{
			"currentStreak": user.CurrentStreak,
			"longestStreak": user.LongestStreak,
			"lastLoginDate": user.LastLoginDate,
		},
		"courseProgress": courseProgress,
		"recentQuizzes":  recentQuizzes,
	})
}

// UpdateProgress godoc
// @Summary Mark a lesson as completed
// @Description Idempotent: marking an already-completed lesson is a no-op.
// @Description When the last lesson of a course is completed the entry gets
// @Description its completion timestamp, exactly once.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/progress [post]
func (uc *UserController) UpdateProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type ProgressInput struct {
		CourseID uint `json:"courseId"`
		LessonID uint `json:"lessonId"`
	}

	var input ProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := uc.DB.Preload("Lessons").First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Completed lessons must stay a subset of the course's lessons
	found := false
	for _, lesson := range course.Lessons {
		if lesson.ID == input.LessonID {
			found = true
			break
		}
	}
	if !found {
		return utils.NotFound(c, "Lesson not found in course")
	}

	var entry models.ProgressEntry
	err = uc.DB.Preload("CompletedLessons").
		Where("user_id = ? AND course_id = ?", userID, input.CourseID).
		First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		// No entry yet (enrollment record lost or never created): create one
		// on the fly holding just this lesson.
		entry = models.ProgressEntry{
			UserID:           userID,
			CourseID:         input.CourseID,
			CompletedLessons: []models.CompletedLesson{{LessonID: input.LessonID}},
		}
		if len(course.Lessons) == 1 {
			now := time.Now()
			entry.CompletedAt = &now
		}
		if err := uc.DB.Create(&entry).Error; err != nil {
			return utils.InternalServerError(c, "Could not update progress")
		}
	} else {
		already := false
		for _, cl := range entry.CompletedLessons {
			if cl.LessonID == input.LessonID {
				already = true
				break
			}
		}

		if !already {
			cl := models.CompletedLesson{ProgressEntryID: entry.ID, LessonID: input.LessonID}
			if err := uc.DB.Create(&cl).Error; err != nil {
				return utils.InternalServerError(c, "Could not update progress")
			}
			entry.CompletedLessons = append(entry.CompletedLessons, cl)

			if len(entry.CompletedLessons) >= len(course.Lessons) && entry.CompletedAt == nil {
				now := time.Now()
				entry.CompletedAt = &now
				if err := uc.DB.Model(&entry).Update("completed_at", entry.CompletedAt).Error; err != nil {
					return utils.InternalServerError(c, "Could not update progress")
				}
			}
		}
	}

	return c.JSON(fiber.Map{
		"courseId":    entry.CourseID,
		"completed":   len(entry.CompletedLessons),
		"total":       len(course.Lessons),
		"percentage":  utils.Percentage(len(entry.CompletedLessons), len(course.Lessons)),
		"completedAt": entry.CompletedAt,
	})
}

// UpdateStreak godoc
// @Summary Apply the daily streak algorithm for "now"
// @Description Safe to call more than once per day, only the first call of a
// @Description calendar day moves the counter.
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/update-streak [post]
func (uc *UserController) UpdateStreak(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now()
	user.CurrentStreak, user.LongestStreak = utils.AdvanceStreak(
		user.CurrentStreak, user.LongestStreak, user.LastLoginDate, now)
	user.LastLoginDate = &now

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update streak")
	}

	return c.JSON(fiber.Map{
		"currentStreak": user.CurrentStreak,
		"longestStreak": user.LongestStreak,
		"lastLoginDate": user.LastLoginDate,
	})
}

// GetLeaderboard godoc
// @Summary Top-10 students by derived score
// @Description Score is 10 points per completed lesson plus 5 per current
// @Description streak day plus the video-quiz score, recomputed on every
// @Description read. Ties break on ascending user id.
// @Tags users
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/leaderboard [get]
func (uc *UserController) GetLeaderboard(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, uc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var students []models.User
	if err := uc.DB.Preload("Progress.CompletedLessons").
		Where("role = ?", "student").Find(&students).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	type row struct {
		id             uint
		name           string
		profilePicture string
		lessons        int
		streak         int
		videoScore     float64
		score          float64
	}

	rows := make([]row, 0, len(students))
	for _, u := range students {
		lessons := 0
		for _, entry := range u.Progress {
			lessons += len(entry.CompletedLessons)
		}
		rows = append(rows, row{
			id:             u.ID,
			name:           u.Name,
			profilePicture: u.ProfilePicture,
			lessons:        lessons,
			streak:         u.CurrentStreak,
			videoScore:     u.VideoQuizScore,
			score:          utils.LeaderboardScore(lessons, u.CurrentStreak, u.VideoQuizScore),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].id < rows[j].id
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}

	leaderboard := []fiber.Map{}
	for _, r := range rows {
		leaderboard = append(leaderboard, fiber.Map{
			"id":               r.id,
			"name":             r.name,
			"score":            r.score,
			"videoScore":       r.videoScore,
			"lessonsCompleted": r.lessons,
			"currentStreak":    r.streak,
			"profilePicture":   r.profilePicture,
		})
	}

	return c.JSON(leaderboard)
}

// UpdateVideoQuizScore godoc
// @Summary Record one interactive video checkpoint answer
// @Description +3 for a correct answer, -0.5 for a wrong one, no bounds.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/video-quiz-score [post]
func (uc *UserController) UpdateVideoQuizScore(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type ScoreInput struct {
		IsCorrect bool `json:"isCorrect"`
	}

	var input ScoreInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	user.VideoQuizScore = utils.AdjustVideoQuizScore(user.VideoQuizScore, input.IsCorrect)
	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update score")
	}

	return c.JSON(fiber.Map{
		"videoQuizScore": user.VideoQuizScore,
	})
}
