package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title        string `gorm:"not null"`
	Description  string `gorm:"type:text"`
	ThumbnailURL string
	Order        int  `gorm:"default:0"`
	IsPublished  bool `gorm:"default:false"`
	Lessons      []Lesson
}

type Lesson struct {
	gorm.Model
	CourseID        uint   `gorm:"not null;index"`
	Title           string `gorm:"not null"`
	Description     string `gorm:"type:text"`
	VideoURL        string // Bunny.net URL
	DurationSeconds int    `gorm:"default:0"`
	Order           int    `gorm:"default:0"`
	IsFree          bool   `gorm:"default:false"` // free preview
}

// UserProgress holds at most one row per (user, lesson) pair.
type UserProgress struct {
	gorm.Model
	UserID         uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID       uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
	Completed      bool `gorm:"default:false"`
	WatchedSeconds int  `gorm:"default:0"`
	LastWatchedAt  time.Time
}

// CourseAccess is the explicit per-course grant. One row per
// (user, course); re-granting must not duplicate.
type CourseAccess struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_user_course"`
	GrantedBy string `gorm:"size:50"` // purchase, legacy_migration, admin
}
