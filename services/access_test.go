package services

import (
	"fmt"
	"testing"

	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, hasAccess bool) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
		HasAccess:    hasAccess,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestHasCourseAccessGrantThenQuery(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com", false)

	require.NoError(t, GrantCourseAccess(db, user.ID, 7, "admin"))

	ok, err := HasCourseAccess(db, user.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasCourseAccessQueryThenGrant(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "b@example.com", false)

	ok, err := HasCourseAccess(db, user.ID, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, GrantCourseAccess(db, user.ID, 7, "admin"))

	ok, err = HasCourseAccess(db, user.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasCourseAccessLegacyFlagCoversCourseOneOnly(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Email: "legacy@example.com", PasswordHash: "x", HasAccess: true}
	require.NoError(t, db.Create(&user).Error)
	// Migration did not see this user; the raw flag check must still work.
	ok, err := HasCourseAccess(db, user.ID, utils.LegacyCourseID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasCourseAccess(db, user.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantCourseAccessIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "c@example.com", false)

	require.NoError(t, GrantCourseAccess(db, user.ID, 3, "purchase"))
	require.NoError(t, GrantCourseAccess(db, user.ID, 3, "purchase"))

	var count int64
	require.NoError(t, db.Model(&models.CourseAccess{}).
		Where("user_id = ? AND course_id = ?", user.ID, 3).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCanViewLessonFreePreview(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "d@example.com", false)

	lesson := models.Lesson{CourseID: 9, Title: "Önizleme", IsFree: true}
	require.NoError(t, db.Create(&lesson).Error)

	ok, err := CanViewLesson(db, user.ID, &lesson)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLegacyMigrationBackfillsGrant(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "e@example.com", true)

	require.NoError(t, utils.Migrate(db))

	var grant models.CourseAccess
	err := db.Where("user_id = ? AND course_id = ?", user.ID, utils.LegacyCourseID).
		First(&grant).Error
	require.NoError(t, err)
	assert.Equal(t, "legacy_migration", grant.GrantedBy)

	// Running the migration again must not duplicate the grant.
	require.NoError(t, utils.Migrate(db))
	var count int64
	db.Model(&models.CourseAccess{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
