package routes

import (
	"gurukul/backend/config"
	"gurukul/backend/controllers"
	"gurukul/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)
	teacherMiddleware := middleware.ApprovedTeacherMiddleware(db, cfg)

	// User routes: dashboard, progress, streaks, leaderboard, video quiz
	userController := controllers.NewUserController(db, cfg)
	users := app.Group("/api/users", authMiddleware)
	users.Get("/dashboard", userController.GetDashboard)
	users.Post("/progress", userController.UpdateProgress)
	users.Post("/update-streak", userController.UpdateStreak)
	users.Get("/leaderboard", userController.GetLeaderboard)
	users.Post("/video-quiz-score", userController.UpdateVideoQuizScore)

	// Courses routes. Static paths go before the :id routes.
	coursesController := controllers.NewCoursesController(db, cfg)
	app.Get("/api/courses", coursesController.GetAllCourses)
	app.Get("/api/courses/my-courses", authMiddleware, coursesController.GetMyCourses)
	app.Get("/api/courses/teacher/analytics", authMiddleware, coursesController.GetTeacherAnalytics)
	app.Get("/api/courses/:id", coursesController.GetCourseByID)
	app.Post("/api/courses", authMiddleware, teacherMiddleware, coursesController.CreateCourse)
	app.Post("/api/courses/enroll/:id", authMiddleware, coursesController.Enroll)
	app.Post("/api/courses/:id/lessons", authMiddleware, teacherMiddleware, coursesController.AddLesson)

	// Discussions are nested under their course
	discussionController := controllers.NewDiscussionController(db, cfg)
	discussions := app.Group("/api/courses/:courseId/discussions", authMiddleware)
	discussions.Get("/", discussionController.GetDiscussionsByCourse)
	discussions.Post("/", discussionController.CreateDiscussion)
	discussions.Post("/:discussionId/reply", discussionController.AddReply)

	// Quizzes routes
	quizController := controllers.NewQuizController(db, cfg)
	app.Post("/api/quizzes", authMiddleware, teacherMiddleware, quizController.CreateQuiz)
	app.Put("/api/quizzes/:id", authMiddleware, teacherMiddleware, quizController.UpdateQuiz)
	app.Get("/api/quizzes/course/:courseId", quizController.GetQuizzesByCourse)
	app.Get("/api/quizzes/:id", authMiddleware, quizController.GetQuizByID)
	app.Post("/api/quizzes/:id/submit", authMiddleware, quizController.SubmitQuiz)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/users", adminController.GetAllUsers)
	admin.Put("/users/:id/status", adminController.UpdateUserStatus)
	admin.Patch("/approve-teacher/:id", adminController.ApproveTeacher)
	admin.Get("/analytics", adminController.GetAnalytics)
}
