package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Category    string
	Price       float64 `gorm:"default:0"`
	Thumbnail   string
	TeacherID   uint
	Lessons     []Lesson
}

type Lesson struct {
	gorm.Model
	CourseID      uint
	Title         string
	URL           string
	Type          string // video, document
	SequenceOrder int
	Checkpoints   []VideoCheckpoint
}

// VideoCheckpoint is an interactive question shown at a fixed point of a
// video lesson.
type VideoCheckpoint struct {
	gorm.Model
	LessonID      uint
	Timestamp     int // seconds from the start of the video
	Question      string
	Options       string // JSON array of options
	CorrectOption int
	Explanation   string
}
