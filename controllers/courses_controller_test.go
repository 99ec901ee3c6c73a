package controllers_test

import (
	"fmt"
	"testing"

	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCourse(t *testing.T, db *gorm.DB, published bool, lessons ...models.Lesson) models.Course {
	t.Helper()
	course := models.Course{Title: "Video Editörlüğü", IsPublished: published}
	require.NoError(t, db.Create(&course).Error)
	for i := range lessons {
		lessons[i].CourseID = course.ID
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	course.Lessons = lessons
	return course
}

func TestGetCoursesListsPublishedOnly(t *testing.T) {
	app, db, _ := setupTestApp(t)
	seedCourse(t, db, true, models.Lesson{Title: "Giriş"})
	seedCourse(t, db, false)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/courses/", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	courses := decodeList(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, "Video Editörlüğü", courses[0]["title"])
}

func TestGetLessonRequiresPurchase(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "ogrenci@example.com", false)
	course := seedCourse(t, db, true, models.Lesson{Title: "Kesme teknikleri"})
	lesson := course.Lessons[0]

	target := fmt.Sprintf("/api/courses/%d/lessons/%d", course.ID, lesson.ID)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, target, token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Bu derse erişmek için kurs satın almalısınız", decodeMap(t, resp)["error"])

	require.NoError(t, services.GrantCourseAccess(db, user.ID, course.ID, "admin"))

	resp, err = app.Test(jsonRequest(fiber.MethodGet, target, token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kesme teknikleri", decodeMap(t, resp)["title"])
}

func TestGetLessonFreePreview(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "misafir@example.com", false)
	course := seedCourse(t, db, true, models.Lesson{Title: "Tanıtım", IsFree: true})

	target := fmt.Sprintf("/api/courses/%d/lessons/%d", course.ID, course.Lessons[0].ID)
	resp, err := app.Test(jsonRequest(fiber.MethodGet, target, token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateProgressUpserts(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "izleyici@example.com", false)
	course := seedCourse(t, db, true, models.Lesson{Title: "Renk düzenleme"})
	lesson := course.Lessons[0]

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/courses/progress", token, fiber.Map{
		"lesson_id":       lesson.ID,
		"watched_seconds": 30,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(fiber.MethodPost, "/api/courses/progress", token, fiber.Map{
		"lesson_id":       lesson.ID,
		"watched_seconds": 120,
		"completed":       true,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.UserProgress{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&progress).Error)
	assert.Equal(t, 120, progress.WatchedSeconds)
	assert.True(t, progress.Completed)
}

func TestUpdateProgressUnknownLesson(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "kayip@example.com", false)

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/courses/progress", token, fiber.Map{
		"lesson_id": 9999,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetMyCoursesCompletionRate(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "azimli@example.com", false)
	course := seedCourse(t, db, true,
		models.Lesson{Title: "Birinci", Order: 0},
		models.Lesson{Title: "İkinci", Order: 1},
	)
	require.NoError(t, services.GrantCourseAccess(db, user.ID, course.ID, "purchase"))

	progress := models.UserProgress{
		UserID:    user.ID,
		LessonID:  course.Lessons[0].ID,
		Completed: true,
	}
	require.NoError(t, db.Create(&progress).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/courses/my-courses", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	courses := decodeList(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, float64(2), courses[0]["lesson_count"])
	assert.Equal(t, float64(1), courses[0]["completed_lessons"])
	assert.Equal(t, float64(50), courses[0]["completion_rate"])
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, userToken := createTestUser(t, db, cfg, "siradan@example.com", false)
	_, adminToken := createTestUser(t, db, cfg, "yonetici@example.com", true)

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/courses/admin/course", userToken, fiber.Map{
		"title": "Yeni Kurs",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(fiber.MethodPost, "/api/courses/admin/course", adminToken, fiber.Map{
		"title":        "Yeni Kurs",
		"is_published": true,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Course{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateLessonUnknownCourse(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, adminToken := createTestUser(t, db, cfg, "admin@example.com", true)

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/courses/admin/lesson", adminToken, fiber.Map{
		"course_id": 555,
		"title":     "Sahipsiz ders",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Kurs bulunamadı", decodeMap(t, resp)["error"])
}
