package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	gorm.Model
	CourseID     uint   `gorm:"not null;index"`
	Title        string `gorm:"size:200;not null"`
	Description  string `gorm:"type:text"`
	PassingScore int    `gorm:"default:70"` // percent
	Order        int    `gorm:"default:0"`
	IsPublished  bool   `gorm:"default:false"`
	Questions    []QuizQuestion
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `gorm:"not null;index"`
	QuestionText  string `gorm:"type:text;not null"`
	OptionA       string `gorm:"size:500;not null"`
	OptionB       string `gorm:"size:500;not null"`
	OptionC       string `gorm:"size:500;not null"`
	OptionD       string `gorm:"size:500;not null"`
	CorrectAnswer string `gorm:"size:1;not null"` // A, B, C or D
	Explanation   string `gorm:"type:text"`
	Order         int    `gorm:"default:0"`
}

type QuizAttempt struct {
	gorm.Model
	UserID  uint `gorm:"not null;index"`
	QuizID  uint `gorm:"not null;index"`
	Score   int  `gorm:"not null"` // percent
	Passed  bool `gorm:"default:false"`
	Answers datatypes.JSON
}

// Content types for CourseContent rows.
const (
	ContentTypeLesson = "lesson"
	ContentTypeQuiz   = "quiz"
)

// CourseContent interleaves lessons and quizzes into one ordering
// per course. Lazily backfilled from lessons then quizzes when a
// course has no rows yet.
type CourseContent struct {
	gorm.Model
	CourseID    uint   `gorm:"not null;index"`
	ContentType string `gorm:"size:20;not null"`
	ContentID   uint   `gorm:"not null"`
	Order       int    `gorm:"default:0"`
}
