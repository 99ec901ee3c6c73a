package services

import (
	"github.com/furkangunes-ai/video-editing-course-web/models"

	"gorm.io/gorm"
)

// EnsureCourseContents returns the merged ordering for a course,
// synthesizing it from existing lessons then quizzes when the course
// has no rows yet. Synthesized rows are persisted so later reads are
// stable.
func EnsureCourseContents(db *gorm.DB, courseID uint) ([]models.CourseContent, error) {
	var contents []models.CourseContent
	err := db.Where("course_id = ?", courseID).Order("\"order\"").Find(&contents).Error
	if err != nil {
		return nil, err
	}
	if len(contents) > 0 {
		return contents, nil
	}

	var lessons []models.Lesson
	if err := db.Where("course_id = ?", courseID).Order("\"order\"").Find(&lessons).Error; err != nil {
		return nil, err
	}
	var quizzes []models.Quiz
	if err := db.Where("course_id = ?", courseID).Order("\"order\"").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	order := 0
	for _, lesson := range lessons {
		contents = append(contents, models.CourseContent{
			CourseID:    courseID,
			ContentType: models.ContentTypeLesson,
			ContentID:   lesson.ID,
			Order:       order,
		})
		order++
	}
	for _, quiz := range quizzes {
		contents = append(contents, models.CourseContent{
			CourseID:    courseID,
			ContentType: models.ContentTypeQuiz,
			ContentID:   quiz.ID,
			Order:       order,
		})
		order++
	}

	if len(contents) == 0 {
		return contents, nil
	}
	if err := db.Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// ContentOrderItem is one entry of a caller-supplied ordering.
type ContentOrderItem struct {
	ContentType string `json:"content_type"`
	ContentID   uint   `json:"content_id"`
	Order       int    `json:"order"`
}

// ReorderContents replaces the whole ordering of a course atomically:
// all existing rows are deleted and the supplied list inserted in one
// transaction.
func ReorderContents(db *gorm.DB, courseID uint, items []ContentOrderItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("course_id = ?", courseID).
			Unscoped().Delete(&models.CourseContent{}).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			content := models.CourseContent{
				CourseID:    courseID,
				ContentType: item.ContentType,
				ContentID:   item.ContentID,
				Order:       item.Order,
			}
			if err := tx.Create(&content).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
