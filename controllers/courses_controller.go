package controllers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxThumbnailSize = 5 * 1024 * 1024

var allowedThumbnailTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

func lessonMap(lesson models.Lesson) fiber.Map {
	return fiber.Map{
		"id":               lesson.ID,
		"course_id":        lesson.CourseID,
		"title":            lesson.Title,
		"description":      lesson.Description,
		"video_url":        lesson.VideoURL,
		"duration_seconds": lesson.DurationSeconds,
		"order":            lesson.Order,
		"is_free":          lesson.IsFree,
	}
}

func courseMap(course models.Course) fiber.Map {
	lessons := make([]fiber.Map, 0, len(course.Lessons))
	for _, lesson := range course.Lessons {
		lessons = append(lessons, lessonMap(lesson))
	}
	return fiber.Map{
		"id":            course.ID,
		"title":         course.Title,
		"description":   course.Description,
		"thumbnail_url": course.ThumbnailURL,
		"order":         course.Order,
		"is_published":  course.IsPublished,
		"lessons":       lessons,
	}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	err := cc.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).Where("is_published = ?", true).Order("\"order\"").Find(&courses).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, courseMap(course))
	}
	return c.JSON(result)
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	err = cc.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Kurs bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(courseMap(course))
}

func (cc *CoursesController) GetLesson(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var lesson models.Lesson
	err = cc.DB.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Ders bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	allowed, err := services.CanViewLesson(cc.DB, userID, &lesson)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Bu derse erişmek için kurs satın almalısınız",
		})
	}

	return c.JSON(lessonMap(lesson))
}

func (cc *CoursesController) UpdateProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		LessonID       uint `json:"lesson_id"`
		WatchedSeconds int  `json:"watched_seconds"`
		Completed      bool `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var lesson models.Lesson
	if err := cc.DB.First(&lesson, input.LessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Ders bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var progress models.UserProgress
	err := cc.DB.Where("user_id = ? AND lesson_id = ?", userID, input.LessonID).
		First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}
		progress = models.UserProgress{
			UserID:   userID,
			LessonID: input.LessonID,
		}
	}

	progress.WatchedSeconds = input.WatchedSeconds
	progress.Completed = input.Completed
	progress.LastWatchedAt = time.Now()

	if err := cc.DB.Save(&progress).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save progress",
		})
	}

	return c.JSON(fiber.Map{
		"lesson_id":       progress.LessonID,
		"watched_seconds": progress.WatchedSeconds,
		"completed":       progress.Completed,
	})
}

func (cc *CoursesController) GetMyProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var progress []models.UserProgress
	if err := cc.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(progress))
	for _, p := range progress {
		result = append(result, fiber.Map{
			"lesson_id":       p.LessonID,
			"watched_seconds": p.WatchedSeconds,
			"completed":       p.Completed,
		})
	}
	return c.JSON(result)
}

// GetMyCourses lists every course the user can access, with the
// completion percentage computed from progress rows.
func (cc *CoursesController) GetMyCourses(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var courses []models.Course
	err := cc.DB.Preload("Lessons").Where("is_published = ?", true).
		Order("\"order\"").Find(&courses).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0)
	for _, course := range courses {
		allowed, err := services.HasCourseAccess(cc.DB, userID, course.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}
		if !allowed {
			continue
		}

		var completed int64
		if len(course.Lessons) > 0 {
			lessonIDs := make([]uint, 0, len(course.Lessons))
			for _, lesson := range course.Lessons {
				lessonIDs = append(lessonIDs, lesson.ID)
			}
			err = cc.DB.Model(&models.UserProgress{}).
				Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
				Count(&completed).Error
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not query database",
				})
			}
		}

		completionRate := 0.0
		if len(course.Lessons) > 0 {
			completionRate = float64(completed) / float64(len(course.Lessons)) * 100
		}

		result = append(result, fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"thumbnail_url":     course.ThumbnailURL,
			"lesson_count":      len(course.Lessons),
			"completed_lessons": completed,
			"completion_rate":   completionRate,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ThumbnailURL string `json:"thumbnail_url"`
		Order        int    `json:"order"`
		IsPublished  bool   `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Kurs başlığı zorunludur",
		})
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		Order:        input.Order,
		IsPublished:  input.IsPublished,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Kurs oluşturuldu",
		"course":  courseMap(course),
	})
}

func (cc *CoursesController) CreateLesson(c *fiber.Ctx) error {
	var input struct {
		CourseID        uint   `json:"course_id"`
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		Order           int    `json:"order"`
		IsFree          bool   `json:"is_free"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Kurs bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	lesson := models.Lesson{
		CourseID:        input.CourseID,
		Title:           input.Title,
		Description:     input.Description,
		VideoURL:        input.VideoURL,
		DurationSeconds: input.DurationSeconds,
		Order:           input.Order,
		IsFree:          input.IsFree,
	}
	if err := cc.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Ders oluşturuldu",
		"lesson":  lessonMap(lesson),
	})
}

// UploadThumbnail accepts a multipart image (max 5MB), stores it under
// the public uploads dir and writes the URL onto the course row.
func (cc *CoursesController) UploadThumbnail(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.FormValue("course_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Kurs bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dosya bulunamadı",
		})
	}

	if file.Size > maxThumbnailSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dosya boyutu 5MB'dan büyük olamaz",
		})
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedThumbnailTypes[strings.ToLower(contentType)]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Sadece resim dosyaları yüklenebilir",
		})
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(cc.Cfg.UploadDir, filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}

	course.ThumbnailURL = fmt.Sprintf("/uploads/%s", filename)
	if err := cc.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message":       "Kapak görseli yüklendi",
		"thumbnail_url": course.ThumbnailURL,
	})
}
