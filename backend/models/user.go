package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:student"` // student, teacher, admin
	Status       string `gorm:"default:active"`  // active, inactive, pending, rejected
	// Teacher accounts stay unapproved until an admin signs off.
	IsApproved     bool   `gorm:"default:false"`
	ApprovalStatus string `gorm:"default:pending"` // pending, approved, rejected
	ProfilePicture string
	Bio            string

	// Streak tracking. LastLoginDate keeps the full timestamp of the last
	// qualifying visit, not the day boundary.
	CurrentStreak int `gorm:"default:0"`
	LongestStreak int `gorm:"default:0"`
	LastLoginDate *time.Time

	// Running score from in-lesson video checkpoints, +3 / -0.5 per answer.
	VideoQuizScore float64 `gorm:"default:0"`

	Progress []ProgressEntry
}
