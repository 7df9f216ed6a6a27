package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	Title     string `gorm:"not null"`
	CourseID  uint
	Questions []QuizQuestion
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint
	Text          string
	Options       string // JSON array of 2-4 options
	CorrectOption int
	SequenceOrder int
}
