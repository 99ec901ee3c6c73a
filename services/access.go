package services

import (
	"errors"

	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HasCourseAccess reports whether a user may view paid content of a
// course. An explicit grant wins; the legacy global flag only ever
// covered course 1.
func HasCourseAccess(db *gorm.DB, userID, courseID uint) (bool, error) {
	var grant models.CourseAccess
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&grant).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if courseID != utils.LegacyCourseID {
		return false, nil
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasAccess, nil
}

// CanViewLesson allows free previews through without an access check.
func CanViewLesson(db *gorm.DB, userID uint, lesson *models.Lesson) (bool, error) {
	if lesson.IsFree {
		return true, nil
	}
	return HasCourseAccess(db, userID, lesson.CourseID)
}

// GrantCourseAccess is idempotent: re-granting the same (user, course)
// never creates a second row.
func GrantCourseAccess(db *gorm.DB, userID, courseID uint, grantedBy string) error {
	grant := models.CourseAccess{
		UserID:    userID,
		CourseID:  courseID,
		GrantedBy: grantedBy,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&grant).Error
}
