package models

import "gorm.io/gorm"

type Discussion struct {
	gorm.Model
	CourseID uint `gorm:"index"`
	LessonID *uint
	UserID   uint
	Title    string `gorm:"not null"`
	Content  string `gorm:"not null"`
	Replies  []DiscussionReply
}

type DiscussionReply struct {
	gorm.Model
	DiscussionID uint
	UserID       uint
	Content      string `gorm:"not null"`
}
