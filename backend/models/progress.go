package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressEntry is the source of truth for enrollment: one row per
// (user, course) pair. A course's enrolled students are derived from these
// rows instead of being kept as a second list on the course.
type ProgressEntry struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_user_course"`
	CourseID uint `gorm:"uniqueIndex:idx_user_course"`
	// Set once, when every lesson of the course has been completed.
	CompletedAt      *time.Time
	CompletedLessons []CompletedLesson
	QuizScores       []QuizScore
}

type CompletedLesson struct {
	gorm.Model
	ProgressEntryID uint `gorm:"uniqueIndex:idx_entry_lesson"`
	LessonID        uint `gorm:"uniqueIndex:idx_entry_lesson"`
}

type QuizScore struct {
	gorm.Model
	ProgressEntryID uint
	QuizID          uint
	Score           float64 // percentage, 0-100
}
